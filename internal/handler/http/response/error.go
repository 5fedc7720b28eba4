package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-core/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-core/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-core/internal/domain/backfill"
	"github.com/cmlabs-hris/attendance-core/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-core/internal/domain/location"
	"github.com/cmlabs-hris/attendance-core/internal/pkg/validator"
)

// Stable error codes returned in the error envelope.
const (
	CodeLocationRequired = "LOCATION_REQUIRED"
	CodeOutOfRange       = "OUT_OF_RANGE"
	CodeReasonRequired   = "REASON_REQUIRED"
	CodeAlreadyCheckedIn = "ALREADY_CHECKED_IN"
	CodeNoRecord         = "NO_RECORD"
	CodeNotCheckedOut    = "NOT_CHECKED_OUT"
	CodeMissingFields    = "MISSING_FIELDS"
	CodeInvalidDate      = "INVALID_DATE"
	CodeInvalidTime      = "INVALID_TIME"
	CodeInvalidType      = "INVALID_TYPE"
	CodeInvalidAction    = "INVALID_ACTION"
	CodeDuplicatePending = "DUPLICATE_PENDING"
	CodeAlreadyProcessed = "ALREADY_PROCESSED"
	CodeNotOnboarded     = "NOT_ONBOARDED"
	CodeNotFound         = "NOT_FOUND"
	CodeForbidden        = "FORBIDDEN"
	CodeDefaultTaken     = "DEFAULT_TAKEN"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var outOfRange *attendance.OutOfRangeError
	if errors.As(err, &outOfRange) {
		Fail(w, http.StatusBadRequest, CodeOutOfRange,
			fmt.Sprintf("您不在打卡范围内，距离%s%.0f米（允许范围%d米）",
				outOfRange.LocationName, outOfRange.DistanceMeters, outOfRange.RadiusMeters),
			map[string]string{
				"location_name":   outOfRange.LocationName,
				"distance_meters": strconv.FormatFloat(outOfRange.DistanceMeters, 'f', 0, 64),
				"radius_meters":   strconv.Itoa(outOfRange.RadiusMeters),
			})
		return
	}

	var reason *attendance.ReasonRequiredError
	if errors.As(err, &reason) {
		msg := fmt.Sprintf("%s后签到属于迟到，请填写迟到原因", reason.Cutoff)
		if reason.Kind == attendance.ReasonEarlyLeave {
			msg = fmt.Sprintf("%s前签退属于早退，请填写早退原因", reason.Cutoff)
		}
		Fail(w, http.StatusBadRequest, CodeReasonRequired, msg,
			map[string]string{"kind": string(reason.Kind), "cutoff": reason.Cutoff.String()})
		return
	}

	var notOnboarded *attendance.NotOnboardedError
	if errors.As(err, &notOnboarded) {
		Fail(w, http.StatusForbidden, CodeNotOnboarded,
			fmt.Sprintf("员工当前状态为「%s」，无法打卡", notOnboarded.Status), nil)
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "登录已失效，请重新登录")
	case errors.Is(err, auth.ErrAdminRequired):
		Fail(w, http.StatusForbidden, CodeForbidden, "需要管理员权限", nil)
	case errors.Is(err, auth.ErrForbidden):
		Fail(w, http.StatusForbidden, CodeForbidden, "您没有权限执行此操作", nil)
	case errors.Is(err, auth.ErrNoEmployeeLink):
		Fail(w, http.StatusNotFound, CodeNotFound, "当前账号未关联员工档案", nil)

	// Attendance
	case errors.Is(err, attendance.ErrLocationRequired):
		Fail(w, http.StatusBadRequest, CodeLocationRequired, "请开启定位后再打卡", nil)
	case errors.Is(err, attendance.ErrOutOfRange):
		Fail(w, http.StatusBadRequest, CodeOutOfRange, "您不在打卡范围内", nil)
	case errors.Is(err, attendance.ErrReasonRequired):
		Fail(w, http.StatusBadRequest, CodeReasonRequired, "请填写原因", nil)
	case errors.Is(err, attendance.ErrInvalidLocation):
		Fail(w, http.StatusBadRequest, CodeLocationRequired, "经纬度必须同时提供", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Fail(w, http.StatusConflict, CodeAlreadyCheckedIn, "今日已签到", nil)
	case errors.Is(err, attendance.ErrNoRecord):
		Fail(w, http.StatusBadRequest, CodeNoRecord, "今日尚未签到", nil)
	case errors.Is(err, attendance.ErrNotCheckedOut):
		Fail(w, http.StatusBadRequest, CodeNotCheckedOut, "今日尚未签退", nil)
	case errors.Is(err, attendance.ErrNotOnboarded):
		Fail(w, http.StatusForbidden, CodeNotOnboarded, "员工未入职，无法打卡", nil)
	case errors.Is(err, attendance.ErrInvalidDateRange):
		Fail(w, http.StatusBadRequest, CodeInvalidDate, "开始日期不能晚于结束日期", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, "考勤记录不存在", nil)

	// Backfill
	case errors.Is(err, backfill.ErrMissingFields):
		Fail(w, http.StatusBadRequest, CodeMissingFields, "日期、时间和类型不能为空", nil)
	case errors.Is(err, backfill.ErrReasonRequired):
		Fail(w, http.StatusBadRequest, CodeReasonRequired, "请填写补签原因", nil)
	case errors.Is(err, backfill.ErrInvalidKind):
		Fail(w, http.StatusBadRequest, CodeInvalidType, "补签类型必须为签到或签退", nil)
	case errors.Is(err, backfill.ErrInvalidDate):
		Fail(w, http.StatusBadRequest, CodeInvalidDate, "日期格式应为YYYY-MM-DD", nil)
	case errors.Is(err, backfill.ErrFutureDate):
		Fail(w, http.StatusBadRequest, CodeInvalidDate, "不能为未来日期补签", nil)
	case errors.Is(err, backfill.ErrInvalidTime):
		Fail(w, http.StatusBadRequest, CodeInvalidTime, "时间格式应为HH:MM或HH:MM:SS", nil)
	case errors.Is(err, backfill.ErrInvalidAction):
		Fail(w, http.StatusBadRequest, CodeInvalidAction, "审批操作必须为通过或驳回", nil)
	case errors.Is(err, backfill.ErrInvalidStatus):
		BadRequest(w, "未知的审批状态", nil)
	case errors.Is(err, backfill.ErrDuplicatePending):
		Fail(w, http.StatusConflict, CodeDuplicatePending, "该日期已有待审批的补签申请", nil)
	case errors.Is(err, backfill.ErrAlreadyProcessed):
		Fail(w, http.StatusConflict, CodeAlreadyProcessed, "该申请已被处理", nil)
	case errors.Is(err, backfill.ErrRequestNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, "补签申请不存在", nil)

	// Locations and employees
	case errors.Is(err, location.ErrLocationNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, "打卡地点不存在", nil)
	case errors.Is(err, location.ErrDefaultTaken):
		Fail(w, http.StatusConflict, CodeDefaultTaken, "默认打卡地点已被修改，请刷新后重试", nil)
	case errors.Is(err, location.ErrUnknownLocation):
		BadRequest(w, "包含不存在的打卡地点", nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, "员工不存在", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "服务器内部错误")
	}
}
