package workday

// StatusResponse describes today's working-day status for clients.
type StatusResponse struct {
	Date        string `json:"date"`
	IsWorkday   bool   `json:"is_workday"`
	Type        string `json:"type"`
	TypeName    string `json:"type_name"`
	HolidayName string `json:"holiday_name"`
}

func NewStatusResponse(info DayInfo) StatusResponse {
	name := ""
	switch info.Type {
	case DayWeekend:
		name = "周末"
	case DayHoliday:
		name = info.HolidayName
		if name == "" {
			name = "节假日"
		}
	}
	return StatusResponse{
		Date:        info.Date.Format("2006-01-02"),
		IsWorkday:   info.IsWorkday(),
		Type:        info.Type.String(),
		TypeName:    info.Type.Label(),
		HolidayName: name,
	}
}
