package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"du-electronics-server/models"
	"du-electronics-server/repository"
)

func TestCreateUser_OncePerEmail(t *testing.T) {
	t.Parallel()

	users := repository.NewMemory()
	uc := NewUserController(users)

	post := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Rahim","email":"rahim@x.com"}`))
		uc.CreateUser(rec, req)
		return rec
	}

	rec := post()
	assert.Equal(t, http.StatusCreated, rec.Code)

	// First sign-in already recorded: repeat is a no-op.
	rec = post()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"insertedId":null`)

	count, err := users.Count(context.Background(), bson.M{"email": "rahim@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var user models.User
	require.NoError(t, users.FindOne(context.Background(), bson.M{"email": "rahim@x.com"}, &user))
	assert.Equal(t, "user", user.Role)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateUser_ConcurrentSignInsStayUnique(t *testing.T) {
	t.Parallel()

	users := repository.NewMemory()
	uc := NewUserController(users)

	const signIns = 32
	var created int32
	var wg sync.WaitGroup
	for i := 0; i < signIns; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"Rahim","email":"rahim@x.com"}`))
			uc.CreateUser(rec, req)
			if rec.Code == http.StatusCreated {
				atomic.AddInt32(&created, 1)
			}
		}()
	}
	wg.Wait()

	count, err := users.Count(context.Background(), bson.M{"email": "rahim@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "concurrent sign-ins must not duplicate the user")
	assert.Equal(t, int32(1), created, "exactly one sign-in observes the insert")
}

func TestCreateUser_Validation(t *testing.T) {
	t.Parallel()

	uc := NewUserController(repository.NewMemory())

	rec := httptest.NewRecorder()
	uc.CreateUser(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"name":"no email"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	uc.CreateUser(rec, httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`not json`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
