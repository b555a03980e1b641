package client

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// UserForm holds the fields the account-creation CGI script expects.
type UserForm struct {
	UserID   string
	Name     string
	Email    string
	Password string
}

// NewTestUser returns a user form with a unique user id, so that parallel
// test runs against a shared deployment never collide on accounts.
func NewTestUser() UserForm {
	id := "test-" + strings.Split(uuid.NewString(), "-")[0]
	return UserForm{
		UserID:   id,
		Name:     "Test user " + id,
		Email:    id + "@example.org",
		Password: "testtest",
	}
}

// CreateUser registers a new account through /cgi/user.pl. This is a
// setup-phase operation: any problem aborts the whole test scope, since
// nothing later can pass without the account.
func CreateUser(t Failer, c *http.Client, user UserForm) {
	form := url.Values{
		"type":             {"add"},
		"action":           {"process"},
		"userid":           {user.UserID},
		"name":             {user.Name},
		"email":            {user.Email},
		"password":         {user.Password},
		"confirm_password": {user.Password},
	}
	resp := PostForm(t, c, TestURL("", "/cgi/user.pl"), form, nil)
	require.Less(t, resp.StatusCode, 400,
		"could not create user %q: status %d, body: %s", user.UserID, resp.StatusCode, resp.Body)
}

// Login signs the client's cookie jar into an existing account through
// /cgi/login.pl, aborting hard if the session cookie does not land.
func Login(t Failer, c *http.Client, userID, password string) {
	form := url.Values{
		"user_id":  {userID},
		"password": {password},
		".submit":  {"Sign in"},
	}
	resp := PostForm(t, c, TestURL("", "/cgi/login.pl"), form, nil)
	require.Less(t, resp.StatusCode, 400,
		"login as %q failed: status %d", userID, resp.StatusCode)

	u, err := url.Parse(BaseURL(""))
	require.NoError(t, err)
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == "session" {
			return
		}
	}
	require.FailNow(t, "login did not produce a session cookie",
		"user %q, status %d, body: %s", userID, resp.StatusCode, resp.Body)
}

// EditProduct creates or updates a product through the JQM edit script,
// the same endpoint the mobile app posts to.
func EditProduct(t Failer, c *http.Client, code string, fields url.Values) {
	form := url.Values{"code": {code}}
	for name, values := range fields {
		form[name] = values
	}
	resp := PostForm(t, c, TestURL("", "/cgi/product_jqm2.pl"), form, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode,
		"could not edit product %q: status %d, body: %s", code, resp.StatusCode, resp.Body)
}
