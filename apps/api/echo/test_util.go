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

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/ArKa3003/arkamed/core"
	"github.com/ArKa3003/arkamed/core/casebank"
	"github.com/ArKa3003/arkamed/core/progress"
	"github.com/ArKa3003/arkamed/core/user"
	emailsvc "github.com/ArKa3003/arkamed/services/email"
	logsvc "github.com/ArKa3003/arkamed/services/logger"
	dummydb "github.com/ArKa3003/arkamed/storage/database/dummy"
	"github.com/ArKa3003/arkamed/storage/session"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

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

type testApp struct {
	server      Server
	conf        *core.Config
	userSvc     user.Service
	caseSvc     casebank.Service
	progressSvc progress.Service
	mailSvc     core.EmailService
}

func newTestApp(t *testing.T) *testApp {
	conf := core.NewTestConfig()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	userSvc := user.NewService(dummydb.NewUserRepository(db), mailSvc, conf)
	caseSvc := casebank.NewService(dummydb.NewCaseRepository(db))
	progressSvc := progress.NewService(dummydb.NewProgressRepository(db), mailSvc, conf)

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	casebank.InitValidators(validate, translator)

	logger := logsvc.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags))

	server := NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      userSvc,
		CaseSvc:      caseSvc,
		ProgressSvc:  progressSvc,
		SessionStore: session.NewDummyStore(),
		Validate:     validate,
		Translator:   translator,
	})

	return &testApp{
		server:      server,
		conf:        conf,
		userSvc:     userSvc,
		caseSvc:     caseSvc,
		progressSvc: progressSvc,
		mailSvc:     mailSvc,
	}
}

func (app *testApp) createUser(t *testing.T, name, email, pwd string, admin, onboarded bool) user.User {
	t.Helper()
	usr, err := app.userSvc.Register(context.Background(), user.NewUser{
		Name:            name,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if admin {
		usr, err = app.userSvc.Update(context.Background(), usr.ID, user.UpdateUser{Role: user.RoleAdmin})
		if err != nil {
			t.Fatalf("Update() failed: %v", err)
		}
	}
	if onboarded {
		usr, err = app.userSvc.CompleteOnboarding(context.Background(), usr.ID)
		if err != nil {
			t.Fatalf("CompleteOnboarding() failed: %v", err)
		}
	}
	return usr
}

func (app *testApp) createCase(t *testing.T, nc casebank.NewCase) casebank.Case {
	t.Helper()
	cs, err := app.caseSvc.Create(context.Background(), nc)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	return cs
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
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
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
