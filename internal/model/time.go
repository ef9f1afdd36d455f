package model

import "time"

// LocalTime 以 "YYYY-MM-DD HH:MM:SS" 的本地时间格式输出到 JSON，零值输出 null。
type LocalTime time.Time

const localTimeLayout = "2006-01-02 15:04:05"

func (t LocalTime) String() string {
	return time.Time(t).Local().Format(localTimeLayout)
}

// MarshalJSON implements json.Marshaler.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	if time.Time(t).IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}
