package registry

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonwriters/backend/internal/store"
)

func newTestRegistry() (*Registry, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return New(st), st
}

func registerTestUser(t *testing.T, reg *Registry, email string) *User {
	t.Helper()
	result := reg.Register(context.Background(), RegisterInput{
		FirstName: "Jane",
		LastName:  "Wanjiku",
		Email:     email,
		Phone:     "0712345678",
		Password:  "longenough",
	})
	require.True(t, result.Success, "registration failed: %s", result.Message)
	return result.User
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("successful registration", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Register(ctx, RegisterInput{Email: "a@b.com", Password: "longenough"})

		require.True(t, result.Success)
		assert.Equal(t, "User registered successfully", result.Message)
		require.NotNil(t, result.User)
		assert.NotZero(t, result.User.ID)
		assert.Equal(t, "a@b.com", result.User.Email)

		// Registration establishes the session immediately.
		assert.True(t, reg.IsLoggedIn(ctx))
		current := reg.CurrentUser(ctx)
		require.NotNil(t, current)
		assert.Equal(t, "a@b.com", current.Email)
	})

	t.Run("defaults populated", func(t *testing.T) {
		reg, _ := newTestRegistry()

		user := registerTestUser(t, reg, "jane@example.com")

		assert.Equal(t, float64(0), user.Balance)
		assert.Equal(t, float64(0), user.TotalEarned)
		assert.Equal(t, 0, user.CompletedTasks)
		assert.Equal(t, float64(0), user.Rating)
		assert.NotEmpty(t, user.JoinedDate)
		assert.NotEmpty(t, user.PaymentDate)
		assert.True(t, user.Subscribed)
		assert.True(t, user.PaymentMade)
	})

	t.Run("subscribed false is respected", func(t *testing.T) {
		reg, _ := newTestRegistry()
		subscribed := false

		result := reg.Register(ctx, RegisterInput{
			Email:      "opt-out@example.com",
			Password:   "longenough",
			Subscribed: &subscribed,
		})

		require.True(t, result.Success)
		assert.False(t, result.User.Subscribed)
		assert.True(t, result.User.PaymentMade)
	})

	t.Run("missing email or password", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Register(ctx, RegisterInput{Password: "longenough"})
		assert.False(t, result.Success)
		assert.Equal(t, "Email and password are required", result.Message)

		result = reg.Register(ctx, RegisterInput{Email: "a@b.com"})
		assert.False(t, result.Success)
		assert.Equal(t, "Email and password are required", result.Message)
	})

	t.Run("duplicate email leaves collection unchanged", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "dup@example.com")

		before := len(reg.AllUsers(ctx))
		result := reg.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "longenough"})

		assert.False(t, result.Success)
		assert.Equal(t, "Email already registered", result.Message)
		assert.Len(t, reg.AllUsers(ctx), before)
	})

	t.Run("invalid email format", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Register(ctx, RegisterInput{Email: "not-an-email", Password: "longenough"})
		assert.False(t, result.Success)
		assert.Equal(t, "Invalid email format", result.Message)
	})

	t.Run("weak password", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Register(ctx, RegisterInput{Email: "a@b.com", Password: "short"})
		assert.False(t, result.Success)
		assert.Equal(t, "Password must be at least 8 characters", result.Message)
		assert.Empty(t, reg.AllUsers(ctx))
	})

	t.Run("duplicate check runs before email format check", func(t *testing.T) {
		reg, _ := newTestRegistry()
		// Seed a record with an address the format check would reject.
		require.True(t, reg.ImportData(ctx, `[{"id":1,"email":"bad email@x"}]`).Success)

		result := reg.Register(ctx, RegisterInput{Email: "bad email@x", Password: "longenough"})
		assert.Equal(t, "Email already registered", result.Message)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("successful login sets lastLoginDate", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")
		reg.Logout(ctx)

		result := reg.Authenticate(ctx, "jane@example.com", "longenough")

		require.True(t, result.Success)
		assert.Equal(t, "Login successful", result.Message)
		assert.NotEmpty(t, result.User.LastLoginDate)
		assert.True(t, reg.IsLoggedIn(ctx))

		// The collection entry carries the login date too.
		stored := reg.FindUserByEmail(ctx, "jane@example.com")
		require.NotNil(t, stored)
		assert.Equal(t, result.User.LastLoginDate, stored.LastLoginDate)
	})

	t.Run("missing credentials", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Authenticate(ctx, "", "longenough")
		assert.Equal(t, "Email and password are required", result.Message)

		result = reg.Authenticate(ctx, "jane@example.com", "")
		assert.Equal(t, "Email and password are required", result.Message)
	})

	t.Run("user not found is flagged", func(t *testing.T) {
		reg, _ := newTestRegistry()

		result := reg.Authenticate(ctx, "nobody@example.com", "longenough")
		assert.False(t, result.Success)
		assert.Equal(t, "User not found", result.Message)
		assert.True(t, result.UserNotFound)
	})

	t.Run("wrong password does not flip session flag", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")
		reg.Logout(ctx)

		result := reg.Authenticate(ctx, "jane@example.com", "wrongpass")

		assert.False(t, result.Success)
		assert.Equal(t, "Incorrect password", result.Message)
		assert.False(t, result.UserNotFound)
		assert.False(t, reg.IsLoggedIn(ctx))
	})

	t.Run("password comparison is case sensitive", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		result := reg.Authenticate(ctx, "jane@example.com", "Longenough")
		assert.Equal(t, "Incorrect password", result.Message)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()
	registerTestUser(t, reg, "jane@example.com")

	reg.Logout(ctx)

	assert.False(t, reg.IsLoggedIn(ctx))
	assert.Nil(t, reg.CurrentUser(ctx))
	// The record stays in the collection; the user can log in again.
	assert.NotNil(t, reg.FindUserByEmail(ctx, "jane@example.com"))
	assert.True(t, reg.Authenticate(ctx, "jane@example.com", "longenough").Success)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("nil when logged out", func(t *testing.T) {
		reg, _ := newTestRegistry()
		assert.Nil(t, reg.CurrentUser(ctx))
	})

	t.Run("corrupt session record degrades to nil", func(t *testing.T) {
		reg, st := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")
		require.NoError(t, st.Set(ctx, store.KeyCurrentUser, "{not json"))

		assert.Nil(t, reg.CurrentUser(ctx))
	})
}

func TestAllUsers(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		reg, _ := newTestRegistry()
		assert.Empty(t, reg.AllUsers(ctx))
	})

	t.Run("corrupt collection degrades to empty", func(t *testing.T) {
		reg, st := newTestRegistry()
		require.NoError(t, st.Set(ctx, store.KeyAllUsers, "[[["))
		assert.Empty(t, reg.AllUsers(ctx))
	})
}

func TestFindUser(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()
	user := registerTestUser(t, reg, "jane@example.com")

	t.Run("by email", func(t *testing.T) {
		found := reg.FindUserByEmail(ctx, "jane@example.com")
		require.NotNil(t, found)
		assert.Equal(t, user.ID, found.ID)

		// Exact string match, case sensitive.
		assert.Nil(t, reg.FindUserByEmail(ctx, "Jane@example.com"))
	})

	t.Run("by id", func(t *testing.T) {
		found := reg.FindUserByID(ctx, user.ID)
		require.NotNil(t, found)
		assert.Equal(t, "jane@example.com", found.Email)

		assert.Nil(t, reg.FindUserByID(ctx, user.ID+1))
	})

	t.Run("email exists", func(t *testing.T) {
		assert.True(t, reg.EmailExists(ctx, "jane@example.com"))
		assert.False(t, reg.EmailExists(ctx, "other@example.com"))
	})
}

func TestUpdateCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("fails when logged out", func(t *testing.T) {
		reg, _ := newTestRegistry()
		assert.False(t, reg.UpdateCurrentUser(ctx, map[string]any{"balance": 10}))
	})

	t.Run("last write wins, untouched fields retained", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"balance": 25.5}))
		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"balance": 40.0}))

		current := reg.CurrentUser(ctx)
		require.NotNil(t, current)
		assert.Equal(t, 40.0, current.Balance)
		assert.Equal(t, "Jane", current.FirstName)
		assert.Equal(t, "0712345678", current.Phone)
	})

	t.Run("collection entry is rewritten", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"completedTasks": 7}))

		stored := reg.FindUserByEmail(ctx, "jane@example.com")
		require.NotNil(t, stored)
		assert.Equal(t, 7, stored.CompletedTasks)
	})

	t.Run("legacy session mirror is kept in sync", func(t *testing.T) {
		reg, st := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"rating": 4.5}))

		raw, err := st.Get(ctx, store.KeyLegacyUser)
		require.NoError(t, err)
		var mirrored User
		require.NoError(t, json.Unmarshal([]byte(raw), &mirrored))
		assert.Equal(t, 4.5, mirrored.Rating)
	})

	t.Run("no matching collection entry is a silent no-op", func(t *testing.T) {
		reg, st := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")
		// Rewrite the session record to an email not present in the collection.
		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"email": "ghost@example.com"}))

		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"balance": 99.0}))

		stored := reg.FindUserByEmail(ctx, "jane@example.com")
		require.NotNil(t, stored)
		assert.Equal(t, float64(0), stored.Balance)

		raw, err := st.Get(ctx, store.KeyCurrentUser)
		require.NoError(t, err)
		assert.Contains(t, raw, `"balance":99`)
	})

	t.Run("fields outside the model survive the merge", func(t *testing.T) {
		reg, st := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"referralCode": "NW-2024"}))
		require.True(t, reg.UpdateCurrentUser(ctx, map[string]any{"balance": 12.0}))

		raw, err := st.Get(ctx, store.KeyCurrentUser)
		require.NoError(t, err)
		assert.Contains(t, raw, `"referralCode":"NW-2024"`)
	})
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("empty collection has zero averages", func(t *testing.T) {
		reg, _ := newTestRegistry()

		stats := reg.Statistics(ctx)
		assert.Equal(t, 0, stats.TotalUsers)
		assert.Equal(t, float64(0), stats.AverageEarningsPerUser)
		assert.Equal(t, float64(0), stats.AverageRating)
	})

	t.Run("sums and averages", func(t *testing.T) {
		reg, _ := newTestRegistry()
		seed := `[
			{"id":1,"email":"a@x.com","totalEarned":100,"completedTasks":4,"rating":5},
			{"id":2,"email":"b@x.com","totalEarned":50,"completedTasks":2,"rating":3}
		]`
		require.True(t, reg.ImportData(ctx, seed).Success)

		stats := reg.Statistics(ctx)
		assert.Equal(t, 2, stats.TotalUsers)
		assert.Equal(t, float64(150), stats.TotalEarnings)
		assert.Equal(t, 6, stats.TotalTasksCompleted)
		assert.Equal(t, float64(75), stats.AverageEarningsPerUser)
		assert.Equal(t, float64(4), stats.AverageRating)
	})
}

func TestImportExport(t *testing.T) {
	ctx := context.Background()

	t.Run("import replaces the collection", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "old@example.com")

		result := reg.ImportData(ctx, `[{"id":1,"email":"x@y.com"}]`)

		require.True(t, result.Success)
		assert.Equal(t, "Imported 1 users", result.Message)
		users := reg.AllUsers(ctx)
		require.Len(t, users, 1)
		assert.Equal(t, "x@y.com", users[0].Email)
	})

	t.Run("non-array payload is rejected without touching the collection", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "keep@example.com")

		result := reg.ImportData(ctx, `{}`)

		assert.False(t, result.Success)
		assert.Equal(t, "Invalid data format", result.Message)
		require.Len(t, reg.AllUsers(ctx), 1)
		assert.Equal(t, "keep@example.com", reg.AllUsers(ctx)[0].Email)
	})

	t.Run("null payload is not an array", func(t *testing.T) {
		reg, _ := newTestRegistry()
		result := reg.ImportData(ctx, `null`)
		assert.Equal(t, "Invalid data format", result.Message)
	})

	t.Run("malformed payload", func(t *testing.T) {
		reg, _ := newTestRegistry()
		result := reg.ImportData(ctx, `[{"id":`)
		assert.False(t, result.Success)
		assert.Equal(t, "Error parsing JSON data", result.Message)
	})

	t.Run("export round trip", func(t *testing.T) {
		reg, _ := newTestRegistry()
		registerTestUser(t, reg, "jane@example.com")

		exported, err := reg.ExportData(ctx)
		require.NoError(t, err)

		var users []User
		require.NoError(t, json.Unmarshal([]byte(exported), &users))
		require.Len(t, users, 1)
		assert.Equal(t, "jane@example.com", users[0].Email)
	})
}

func TestClearAllData(t *testing.T) {
	ctx := context.Background()
	reg, st := newTestRegistry()
	registerTestUser(t, reg, "jane@example.com")

	reg.ClearAllData(ctx)

	assert.False(t, reg.IsLoggedIn(ctx))
	assert.Empty(t, reg.AllUsers(ctx))
	for _, key := range []string{
		store.KeyLoggedIn, store.KeyCurrentUser, store.KeyAllUsers,
		store.KeyLegacyUser, store.KeyLegacyAllUsers,
	} {
		_, err := st.Get(ctx, key)
		assert.Equal(t, store.ErrNotFound, err, "key %s should be removed", key)
	}
}
