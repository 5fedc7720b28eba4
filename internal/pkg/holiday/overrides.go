package holiday

import (
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/attendance-core/internal/domain/workday"
	"gopkg.in/yaml.v3"
)

// Overrides is a local list of company specific day types consulted before
// the network calendar. File format:
//
//	days:
//	  - date: 2024-10-08
//	    type: holiday
//	    name: 公司周年庆
type Overrides struct {
	days map[string]workday.DayInfo
}

type overrideFile struct {
	Days []struct {
		Date string `yaml:"date"`
		Type string `yaml:"type"`
		Name string `yaml:"name"`
	} `yaml:"days"`
}

var dayTypeNames = map[string]workday.DayType{
	"ordinary": workday.DayOrdinary,
	"workday":  workday.DayOrdinary,
	"weekend":  workday.DayWeekend,
	"holiday":  workday.DayHoliday,
	"makeup":   workday.DayMakeup,
}

// LoadOverrides reads an overrides file. An empty path yields an empty set.
func LoadOverrides(path string) (*Overrides, error) {
	o := &Overrides{days: make(map[string]workday.DayInfo)}
	if path == "" {
		return o, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday overrides: %w", err)
	}
	if err := o.parse(raw); err != nil {
		return nil, err
	}
	return o, nil
}

func ParseOverrides(raw []byte) (*Overrides, error) {
	o := &Overrides{days: make(map[string]workday.DayInfo)}
	if err := o.parse(raw); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Overrides) parse(raw []byte) error {
	var file overrideFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse holiday overrides: %w", err)
	}

	for i, d := range file.Days {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return fmt.Errorf("holiday override #%d: invalid date %q", i+1, d.Date)
		}
		t, ok := dayTypeNames[d.Type]
		if !ok {
			return fmt.Errorf("holiday override #%d: unknown type %q", i+1, d.Type)
		}
		o.days[d.Date] = workday.DayInfo{
			Date:        date,
			Type:        t,
			HolidayName: d.Name,
			Source:      workday.SourceOverride,
		}
	}
	return nil
}

func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.days)
}

// Find returns the override for date, if any.
func (o *Overrides) Find(date time.Time) (workday.DayInfo, bool) {
	if o == nil {
		return workday.DayInfo{}, false
	}
	info, ok := o.days[date.Format("2006-01-02")]
	if ok {
		info.Date = date
	}
	return info, ok
}
