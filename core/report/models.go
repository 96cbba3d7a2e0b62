package report

import "time"

type ClassInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Grade int    `json:"grade"`
}

// TeacherComment is one teacher's latest comment on a student.
type TeacherComment struct {
	TeacherName string    `json:"teacher_name"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
}

type StudentReport struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	ParentName  string           `json:"parent_name"`
	ParentPhone string           `json:"parent_phone"`
	ParentEmail string           `json:"parent_email"`
	Comments    []TeacherComment `json:"comments"`
}

type ClassReport struct {
	ClassInfo ClassInfo       `json:"class_info"`
	Students  []StudentReport `json:"students"`
}
