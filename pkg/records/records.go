package records

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// DateLayout renders a publish time as e.g. "Mon Jan 01 2024 13:04:05"; it's 24 characters wide and matches record files written by earlier versions of this step
const DateLayout = "Mon Jan 02 2006 15:04:05"

// Record tracks when an image tag was last published
type Record struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`

	// any other keys on an entry are carried along untouched
	Extra map[string]interface{} `yaml:",inline"`
}

// List is the ordered content of a record file
type List []Record

// Parse reads a record file; an empty or absent document yields an empty list
func Parse(text string) (list List, err error) {

	if strings.TrimSpace(text) == "" {
		return List{}, nil
	}

	// check the top-level shape first, so a mapping or scalar doesn't get silently coerced
	var document interface{}
	if err = yaml.Unmarshal([]byte(text), &document); err != nil {
		return nil, errors.Wrap(err, "Failed parsing record file")
	}
	if document == nil {
		return List{}, nil
	}
	if _, ok := document.([]interface{}); !ok {
		return nil, errors.Errorf("Record file should contain a list of records, got %T", document)
	}

	if err = yaml.Unmarshal([]byte(text), &list); err != nil {
		return nil, errors.Wrap(err, "Failed parsing records in record file")
	}

	return list, nil
}

// Marshal serializes the list back into record file content
func Marshal(list List) (string, error) {

	if list == nil {
		list = List{}
	}

	data, err := yaml.Marshal(list)
	if err != nil {
		return "", errors.Wrap(err, "Failed marshalling records")
	}

	return string(data), nil
}

// Merge returns a copy of list in which the first record named tag has its date set to now; if no record has that name a new one is appended
func Merge(list List, tag string, now time.Time) List {

	merged := make(List, len(list), len(list)+1)
	copy(merged, list)

	date := FormatDate(now)

	for i := range merged {
		if merged[i].Name == tag {
			merged[i].Date = date
			return merged
		}
	}

	return append(merged, Record{
		Name: tag,
		Date: date,
	})
}

// FormatDate formats t with DateLayout
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate reads a record date back into a time in the given location
func ParseDate(date string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, date, loc)
}

// Find returns the first record named tag
func (l List) Find(tag string) (Record, bool) {
	for _, r := range l {
		if r.Name == tag {
			return r, true
		}
	}
	return Record{}, false
}
