package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	// DefaultCourseID 未显式指定课程时使用的课程标识
	DefaultCourseID = "default"
)
