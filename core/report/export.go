package report

import (
	"fmt"
	"strings"
	"time"
)

// Placeholder cell values for students with no data to show.
const (
	NoComments = "No comments yet"
	NoPhone    = "No phone number"
)

// ExportHeader is the column order of the exported sheet.
var ExportHeader = []string{
	"Parent phone", "No", "Student", "Parent", "Parent email", "Comments",
}

// ExportRows flattens a class report into spreadsheet rows, one per student,
// in the ExportHeader column order.
func ExportRows(rpt ClassReport) [][]string {
	rows := make([][]string, 0, len(rpt.Students))
	for i, stu := range rpt.Students {
		phone := stu.ParentPhone
		if phone == "" {
			phone = NoPhone
		}
		contents := make([]string, 0, len(stu.Comments))
		for _, cmt := range stu.Comments {
			contents = append(contents, cmt.Content)
		}
		joined := strings.Join(contents, "; ")
		if joined == "" {
			joined = NoComments
		}
		rows = append(rows, []string{
			phone,
			fmt.Sprintf("%d", i+1),
			stu.StudentName,
			stu.ParentName,
			stu.ParentEmail,
			joined,
		})
	}
	return rows
}

// ExportFilename names the downloaded workbook after the class and the
// export date.
func ExportFilename(className string, now time.Time) string {
	return fmt.Sprintf("Report_Class%s_%s.xlsx", className, now.Format("2006-01-02"))
}
