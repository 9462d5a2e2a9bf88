package report

import "time"

// SolarTerm returns the approximate Chinese solar term for a date.
// Boundaries are fixed calendar days, close enough for a daily greeting.
func SolarTerm(date time.Time) string {
	day := date.Day()

	switch date.Month() {
	case time.January:
		return pick(day, 6, 20, "小寒", "大寒", "立春")
	case time.February:
		return pick(day, 4, 19, "立春", "雨水", "惊蛰")
	case time.March:
		return pick(day, 6, 21, "惊蛰", "春分", "清明")
	case time.April:
		return pick(day, 5, 20, "清明", "谷雨", "立夏")
	case time.May:
		return pick(day, 6, 21, "立夏", "小满", "芒种")
	case time.June:
		return pick(day, 6, 22, "芒种", "夏至", "小暑")
	case time.July:
		return pick(day, 7, 23, "小暑", "大暑", "立秋")
	case time.August:
		return pick(day, 8, 23, "立秋", "处暑", "白露")
	case time.September:
		return pick(day, 8, 23, "白露", "秋分", "寒露")
	case time.October:
		return pick(day, 9, 24, "寒露", "霜降", "立冬")
	case time.November:
		return pick(day, 8, 22, "立冬", "小雪", "大雪")
	default:
		return pick(day, 7, 22, "大雪", "冬至", "小寒")
	}
}

func pick(day, first, second int, early, mid, late string) string {
	if day < first {
		return early
	}
	if day < second {
		return mid
	}
	return late
}
