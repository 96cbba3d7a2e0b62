package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/attendance"
	"github.com/darasahq/darasa/core/comment"
	"github.com/darasahq/darasa/core/report"
	"github.com/darasahq/darasa/core/school"
	"github.com/darasahq/darasa/core/user"
	emailsvc "github.com/darasahq/darasa/services/email"
	exportsvc "github.com/darasahq/darasa/services/export"
	logsvc "github.com/darasahq/darasa/services/logger"
	dummydb "github.com/darasahq/darasa/storage/database/dummy"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

func TestMain(m *testing.M) {
	_ = os.Setenv("ENV", "TEST")
	conf := core.LoadConfig()
	conf.Debug = false // keep error payloads in their production shape

	user.InitValidators(core.Validate, core.Translator)
	comment.InitValidators(core.Validate, core.Translator)

	os.Exit(m.Run())
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

// testApp is a fully wired API server backed by the in-memory store, plus
// the school fixture the tests exercise.
type testApp struct {
	server Server

	usrRepo     user.Repository
	schoolRepo  school.Repository
	commentRepo comment.Repository

	usrSvc        user.Service
	attendanceSvc *attendance.Service
	commentSvc    *comment.Service

	admin        user.User
	teacherUsr   user.User
	otherUsr     user.User
	studentUsr   user.User
	otherStudent user.User
	parentUsr    user.User

	teacher  school.Teacher
	other    school.Teacher
	parent   school.Parent
	student1 school.Student
	student2 school.Student
	grade    school.Grade
	class    school.Class
	subject  school.Subject
	lesson   school.Lesson
}

func initApp(t *testing.T) *testApp {
	t.Helper()
	ctx := context.Background()

	db, err := dummydb.Open()
	require.NoError(t, err)

	a := &testApp{
		usrRepo:     dummydb.NewUserRepository(db),
		schoolRepo:  dummydb.NewSchoolRepository(db),
		commentRepo: dummydb.NewCommentRepository(db),
	}
	attendanceRepo := dummydb.NewAttendanceRepository(db)

	policy := school.NewPolicy(a.schoolRepo)
	a.usrSvc = user.NewService(a.usrRepo, emailsvc.NewConsoleServiceMock(), core.Conf)
	schoolSvc := school.NewService(a.schoolRepo)
	a.attendanceSvc = attendance.NewService(attendanceRepo, policy, a.schoolRepo)
	a.commentSvc = comment.NewService(a.commentRepo, policy, a.schoolRepo)
	reportSvc := report.NewService(a.schoolRepo, a.commentRepo, policy)

	a.server = NewServer(&Options{
		Addr:           ":0",
		DisableReqLogs: true,
		Logger:         logsvc.NewConsoleLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		UserSvc:        a.usrSvc,
		SchoolSvc:      schoolSvc,
		AttendanceSvc:  a.attendanceSvc,
		CommentSvc:     a.commentSvc,
		ReportSvc:      reportSvc,
		Exporter:       exportsvc.NewXLSXWriter(),
	})

	// user accounts
	a.admin = createUser(t, a.usrRepo, "Root", "root", "root@test.cd", core.RoleAdmin)
	a.teacherUsr = createUser(t, a.usrRepo, "Alice Mwangi", "alicemwangi", "alice@test.cd", core.RoleTeacher)
	a.otherUsr = createUser(t, a.usrRepo, "Brian Otieno", "brianotieno", "brian@test.cd", core.RoleTeacher)
	a.studentUsr = createUser(t, a.usrRepo, "Kevin Wanjiru", "kevinwanjiru", "kevin@test.cd", core.RoleStudent)
	a.otherStudent = createUser(t, a.usrRepo, "Aisha Zuberi", "aishazuberi", "aisha@test.cd", core.RoleStudent)
	a.parentUsr = createUser(t, a.usrRepo, "Grace Wanjiru", "gracewanjiru", "grace@test.cd", core.RoleParent)

	// school graph; profile rows share the account's primary key
	a.teacher, err = a.schoolRepo.CreateTeacher(ctx, school.Teacher{ID: a.teacherUsr.ID, Name: "Alice", Surname: "Mwangi"})
	require.NoError(t, err)
	a.other, err = a.schoolRepo.CreateTeacher(ctx, school.Teacher{ID: a.otherUsr.ID, Name: "Brian", Surname: "Otieno"})
	require.NoError(t, err)
	a.parent, err = a.schoolRepo.CreateParent(ctx, school.Parent{ID: a.parentUsr.ID, Name: "Grace", Surname: "Wanjiru"})
	require.NoError(t, err)
	a.grade, err = a.schoolRepo.CreateGrade(ctx, school.Grade{Level: 10})
	require.NoError(t, err)
	a.class, err = a.schoolRepo.CreateClass(ctx, school.Class{Name: "10A", GradeID: a.grade.ID, SupervisorID: a.teacher.ID})
	require.NoError(t, err)
	a.student1, err = a.schoolRepo.CreateStudent(ctx, school.Student{ID: a.studentUsr.ID, Name: "Kevin", Surname: "Wanjiru", ClassID: a.class.ID, ParentID: a.parent.ID})
	require.NoError(t, err)
	a.student2, err = a.schoolRepo.CreateStudent(ctx, school.Student{ID: a.otherStudent.ID, Name: "Aisha", Surname: "Zuberi", ClassID: a.class.ID, ParentID: a.parent.ID})
	require.NoError(t, err)
	a.subject, err = a.schoolRepo.CreateSubject(ctx, school.Subject{Name: "Mathematics"})
	require.NoError(t, err)
	a.lesson, err = a.schoolRepo.CreateLesson(ctx, school.Lesson{
		Name:      "Algebra",
		StartTime: time.Now().UTC(),
		EndTime:   time.Now().UTC().Add(45 * time.Minute),
		ClassID:   a.class.ID,
		TeacherID: a.teacher.ID,
		SubjectID: a.subject.ID,
	})
	require.NoError(t, err)

	return a
}

func createUser(t *testing.T, repo user.Repository, name, uname, email, role string) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetActive(true)
	require.NoError(t, usr.SetPassword("LePass123!"))
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err)
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	require.NoError(t, err)
	return token
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
