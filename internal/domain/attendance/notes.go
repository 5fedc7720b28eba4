package attendance

import "strings"

// Fixed note fragments. Writers and the stripping logic must both use these.
const (
	NotePrefixLate             = "迟到原因："
	NotePrefixEarlyLeave       = "早退原因："
	NotePrefixBackfillCheckIn  = "补签到："
	NotePrefixBackfillCheckOut = "补签退："
	NoteOvertime               = "加班"
	NoteAutoAbsent             = "全天未签到，自动标记缺勤"
)

const (
	// NoteLineSeparator separates reason lines.
	NoteLineSeparator = "\n"
	// NoteRemarkSeparator joins free remarks added by a check-out correction.
	NoteRemarkSeparator = " | "
)

// AppendNote appends note to notes with sep, never discarding what is there.
func AppendNote(notes, sep, note string) string {
	if note == "" {
		return notes
	}
	if notes == "" {
		return note
	}
	return notes + sep + note
}

// AppendRemark adds a free remark from a check-out correction. Remarks join
// the last line with NoteRemarkSeparator unless that line is a reason line,
// which gets stripped as a whole when its reason stops applying.
func AppendRemark(notes, remark string) string {
	last := notes[strings.LastIndex(notes, NoteLineSeparator)+1:]
	if isReasonLine(last) {
		return AppendNote(notes, NoteLineSeparator, remark)
	}
	return AppendNote(notes, NoteRemarkSeparator, remark)
}

func isReasonLine(line string) bool {
	line = strings.TrimSpace(line)
	for _, prefix := range []string{
		NotePrefixLate,
		NotePrefixEarlyLeave,
		NotePrefixBackfillCheckIn,
		NotePrefixBackfillCheckOut,
	} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// StripLines removes every line that starts with prefix.
func StripLines(notes, prefix string) string {
	if notes == "" {
		return notes
	}
	lines := strings.Split(notes, NoteLineSeparator)
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, NoteLineSeparator))
}

// WithPrefix renders a reason line.
func WithPrefix(prefix, reason string) string {
	return prefix + reason
}
