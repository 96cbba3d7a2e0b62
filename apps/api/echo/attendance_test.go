package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/school"
)

func submitBody(t *testing.T, lessonID string, entries ...attendance.Entry) []byte {
	t.Helper()
	return marshallObj(t, attendance.SubmitAttendance{LessonID: lessonID, Entries: entries})
}

func Test_attendanceApi_submit(t *testing.T) {
	app := initApp(t)

	adminToken := getToken(t, app.admin)
	teacherToken := getToken(t, app.teacherUsr)
	otherToken := getToken(t, app.otherUsr)
	studentToken := getToken(t, app.studentUsr)
	parentToken := getToken(t, app.parentUsr)

	path := "/v1/attendance"
	body := submitBody(t, app.lesson.ID,
		attendance.Entry{StudentID: app.student1.ID, Present: true},
		attendance.Entry{StudentID: app.student2.ID, Present: false},
	)

	tests := []httpTest{
		{name: "anonymous", wantCode: http.StatusUnauthorized, body: body, wantData: marshallObj(t, errMissingToken)},
		{name: "student forbidden", token: studentToken, body: body, wantCode: http.StatusForbidden},
		{name: "parent forbidden", token: parentToken, body: body, wantCode: http.StatusForbidden},
		{name: "unrelated teacher forbidden", token: otherToken, body: body, wantCode: http.StatusForbidden},
		{name: "missing lesson_id", token: teacherToken, body: submitBody(t, "", attendance.Entry{StudentID: app.student1.ID}), wantCode: http.StatusBadRequest},
		{name: "empty entries", token: teacherToken, body: marshallObj(t, attendance.SubmitAttendance{LessonID: app.lesson.ID}), wantCode: http.StatusBadRequest},
		{name: "unknown lesson", token: teacherToken, body: submitBody(t, "nope", attendance.Entry{StudentID: app.student1.ID}), wantCode: http.StatusNotFound},
		{name: "lesson teacher ok", token: teacherToken, body: body, wantCode: http.StatusCreated},
		{name: "admin ok", token: adminToken, body: body, wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_resubmitReplacesDay(t *testing.T) {
	app := initApp(t)
	token := getToken(t, app.teacherUsr)
	path := "/v1/attendance"

	req, rec := newAuthRequest(http.MethodPost, path, token, submitBody(t, app.lesson.ID,
		attendance.Entry{StudentID: app.student1.ID, Present: true},
		attendance.Entry{StudentID: app.student2.ID, Present: true},
	))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// correction: only one student present in the final set
	req, rec = newAuthRequest(http.MethodPost, path, token, submitBody(t, app.lesson.ID,
		attendance.Entry{StudentID: app.student1.ID, Present: false},
	))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var records []attendance.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, app.student1.ID, records[0].StudentID)
	assert.False(t, records[0].Present)

	req, rec = newAuthRequest(http.MethodGet, path+"?lessonId="+app.lesson.ID, token)
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var history []attendance.StudentRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "Kevin", history[0].StudentName)
}

func Test_attendanceApi_history(t *testing.T) {
	app := initApp(t)

	tests := []httpTest{
		{name: "anonymous", path: "/v1/attendance?lessonId=" + app.lesson.ID, wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken)},
		{name: "missing lessonId", path: "/v1/attendance", token: getToken(t, app.teacherUsr), wantCode: http.StatusBadRequest},
		{name: "student forbidden", path: "/v1/attendance?lessonId=" + app.lesson.ID, token: getToken(t, app.studentUsr), wantCode: http.StatusForbidden},
		{name: "unrelated teacher forbidden", path: "/v1/attendance?lessonId=" + app.lesson.ID, token: getToken(t, app.otherUsr), wantCode: http.StatusForbidden},
		{name: "unknown lesson", path: "/v1/attendance?lessonId=nope", token: getToken(t, app.teacherUsr), wantCode: http.StatusNotFound},
		{name: "lesson teacher ok", path: "/v1/attendance?lessonId=" + app.lesson.ID, token: getToken(t, app.teacherUsr), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_attendanceApi_lessons(t *testing.T) {
	app := initApp(t)

	var lessonsOf = func(t *testing.T, token, path string) []school.LessonDetail {
		req, rec := newAuthRequest(http.MethodGet, path, token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var lessons []school.LessonDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lessons))
		return lessons
	}

	// every authed role sees its own slice of the timetable
	assert.Len(t, lessonsOf(t, getToken(t, app.admin), "/v1/attendance/lessons"), 1)
	assert.Len(t, lessonsOf(t, getToken(t, app.teacherUsr), "/v1/attendance/lessons"), 1)
	assert.Empty(t, lessonsOf(t, getToken(t, app.otherUsr), "/v1/attendance/lessons"))
	assert.Len(t, lessonsOf(t, getToken(t, app.studentUsr), "/v1/attendance/lessons"), 1)

	// today's lessons is a teacher view
	today := lessonsOf(t, getToken(t, app.teacherUsr), "/v1/attendance/lessons/today")
	require.Len(t, today, 1)
	assert.Equal(t, "10A", today[0].ClassName)
	assert.Equal(t, "Mathematics", today[0].SubjectName)

	req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/lessons/today", getToken(t, app.studentUsr))
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req, rec = newRequest(http.MethodGet, "/v1/attendance/lessons")
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_attendanceApi_ownHistory(t *testing.T) {
	app := initApp(t)
	teacherToken := getToken(t, app.teacherUsr)

	req, rec := newAuthRequest(http.MethodPost, "/v1/attendance", teacherToken, submitBody(t, app.lesson.ID,
		attendance.Entry{StudentID: app.student1.ID, Present: true},
		attendance.Entry{StudentID: app.student2.ID, Present: false},
	))
	app.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var ownOf = func(t *testing.T, token string) []attendance.Record {
		req, rec := newAuthRequest(http.MethodGet, "/v1/attendance/own", token)
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var records []attendance.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		return records
	}

	own := ownOf(t, getToken(t, app.studentUsr))
	require.Len(t, own, 1)
	assert.Equal(t, app.student1.ID, own[0].StudentID)
	assert.True(t, own[0].Present)

	// a parent sees all their children's records
	assert.Len(t, ownOf(t, getToken(t, app.parentUsr)), 2)

	// teachers use the per-lesson history instead
	req, rec = newAuthRequest(http.MethodGet, "/v1/attendance/own", teacherToken)
	app.server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
