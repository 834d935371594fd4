package web

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView_IsAuthView(t *testing.T) {
	assert.True(t, ViewLogin.IsAuthView())
	assert.True(t, ViewRegister.IsAuthView())
	assert.False(t, ViewHome.IsAuthView())
	assert.False(t, ViewProfile.IsAuthView())

	assert.True(t, ViewEditBlog.Protected())
	assert.False(t, ViewBlog.Protected())
}

func TestRouter_NavigateAndShow(t *testing.T) {
	r := NewRouter(ViewHome, nil)

	var calls [][2]View
	r.OnNavigate = func(from, to View) {
		calls = append(calls, [2]View{from, to})
	}

	r.Show(ViewProfile)
	assert.Equal(t, ViewProfile, r.CurrentView())
	assert.Empty(t, calls, "Show does not fire the hook")

	r.Navigate(ViewLogin)
	assert.Equal(t, ViewLogin, r.CurrentView())
	assert.Equal(t, [][2]View{{ViewProfile, ViewLogin}}, calls)
}

func TestContextValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r = AddValueToContext(r, "user", 42)

	v, ok := GetValueFromContext[int](r, "user")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = GetValueFromContext[string](r, "user")
	assert.False(t, ok, "wrong type")

	_, ok = GetValueFromContext[int](r, "missing")
	assert.False(t, ok)
}
