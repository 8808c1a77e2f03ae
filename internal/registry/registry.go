package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/neonwriters/backend/internal/store"
)

// Registry owns the user collection and the current-session pointer. All
// operations are synchronous and rewrite the collection in full; there is
// no locking across callers, so two concurrent writers can lose updates.
type Registry struct {
	store store.Store
}

// New constructs a Registry over the given store.
func New(st store.Store) *Registry {
	return &Registry{store: st}
}

// RegisterResult reports the outcome of Register.
type RegisterResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// AuthResult reports the outcome of Authenticate. UserNotFound is set
// explicitly so callers can offer registration instead.
type AuthResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	User         *User  `json:"user,omitempty"`
	UserNotFound bool   `json:"userNotFound,omitempty"`
}

// ImportResult reports the outcome of ImportData.
type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Stats aggregates the user collection.
type Stats struct {
	TotalUsers             int     `json:"totalUsers"`
	TotalEarnings          float64 `json:"totalEarnings"`
	TotalTasksCompleted    int     `json:"totalTasksCompleted"`
	AverageEarningsPerUser float64 `json:"averageEarningsPerUser"`
	AverageRating          float64 `json:"averageRating"`
}

// IsLoggedIn reports whether a session is active.
func (r *Registry) IsLoggedIn(ctx context.Context) bool {
	val, err := r.store.Get(ctx, store.KeyLoggedIn)
	if err != nil {
		return false
	}
	return val == "true"
}

// CurrentUser returns the active session record, or nil when no session
// is active or the record is corrupt.
func (r *Registry) CurrentUser(ctx context.Context) *User {
	if !r.IsLoggedIn(ctx) {
		return nil
	}

	raw, err := r.store.Get(ctx, store.KeyCurrentUser)
	if err == store.ErrNotFound {
		return &User{}
	}
	if err != nil {
		log.Printf("[Registry] Error reading current user: %v", err)
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		log.Printf("[Registry] Error parsing current user: %v", err)
		return nil
	}
	return &user
}

// AllUsers returns every registered user. A missing or corrupt collection
// degrades to an empty slice rather than failing the caller.
func (r *Registry) AllUsers(ctx context.Context) []User {
	raw, err := r.store.Get(ctx, store.KeyAllUsers)
	if err == store.ErrNotFound {
		return []User{}
	}
	if err != nil {
		log.Printf("[Registry] Error reading all users: %v", err)
		return []User{}
	}

	var users []User
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		log.Printf("[Registry] Error parsing all users: %v", err)
		return []User{}
	}
	return users
}

// FindUserByEmail returns the first user with a matching email, or nil.
// The match is an exact, case-sensitive string comparison.
func (r *Registry) FindUserByEmail(ctx context.Context, email string) *User {
	for _, user := range r.AllUsers(ctx) {
		if user.Email == email {
			return &user
		}
	}
	return nil
}

// FindUserByID returns the user with the given id, or nil.
func (r *Registry) FindUserByID(ctx context.Context, id int64) *User {
	for _, user := range r.AllUsers(ctx) {
		if user.ID == id {
			return &user
		}
	}
	return nil
}

// EmailExists reports whether any registered user has the given email.
func (r *Registry) EmailExists(ctx context.Context, email string) bool {
	return r.FindUserByEmail(ctx, email) != nil
}

// Register creates a new user record and establishes it as the active
// session. Validation failures and persistence errors are surfaced in the
// result object, never as panics.
func (r *Registry) Register(ctx context.Context, input RegisterInput) RegisterResult {
	if input.Email == "" || input.Password == "" {
		return RegisterResult{Message: "Email and password are required"}
	}

	if r.EmailExists(ctx, input.Email) {
		return RegisterResult{Message: "Email already registered"}
	}

	if !ValidateEmail(input.Email) {
		return RegisterResult{Message: "Invalid email format"}
	}

	if !ValidatePassword(input.Password).Valid {
		return RegisterResult{Message: "Password must be at least 8 characters"}
	}

	user := newUser(input)

	users := append(r.AllUsers(ctx), user)
	if err := r.saveUsers(ctx, users); err != nil {
		log.Printf("[Registry] Error registering user: %v", err)
		return RegisterResult{Message: "An error occurred during registration"}
	}

	if err := r.setSession(ctx, user); err != nil {
		log.Printf("[Registry] Error establishing session: %v", err)
		return RegisterResult{Message: "An error occurred during registration"}
	}

	log.Printf("[Registry] User registered: %s (id %d)", user.Email, user.ID)
	return RegisterResult{Success: true, Message: "User registered successfully", User: &user}
}

// Authenticate validates credentials against the stored collection. The
// comparison is plaintext equality; imported records must keep
// authenticating byte for byte.
func (r *Registry) Authenticate(ctx context.Context, email, password string) AuthResult {
	if email == "" || password == "" {
		return AuthResult{Message: "Email and password are required"}
	}

	user := r.FindUserByEmail(ctx, email)
	if user == nil {
		return AuthResult{Message: "User not found", UserNotFound: true}
	}

	if user.Password != password {
		return AuthResult{Message: "Incorrect password"}
	}

	user.LastLoginDate = nowISO()

	users := r.AllUsers(ctx)
	for i := range users {
		if users[i].Email == email {
			users[i] = *user
			if err := r.saveUsers(ctx, users); err != nil {
				log.Printf("[Registry] Error saving login date: %v", err)
				return AuthResult{Message: "An error occurred during login"}
			}
			break
		}
	}

	if err := r.setSession(ctx, *user); err != nil {
		log.Printf("[Registry] Error establishing session: %v", err)
		return AuthResult{Message: "An error occurred during login"}
	}

	log.Printf("[Registry] Login successful: %s", user.Email)
	return AuthResult{Success: true, Message: "Login successful", User: user}
}

// UpdateCurrentUser merges the given fields over the active session
// record. The merge happens at the JSON level so fields this package does
// not model survive the rewrite. The collection entry with a matching
// email is replaced; if none matches, the collection is left unchanged.
func (r *Registry) UpdateCurrentUser(ctx context.Context, partial map[string]any) bool {
	if !r.IsLoggedIn(ctx) {
		log.Printf("[Registry] No user logged in")
		return false
	}

	raw, err := r.store.Get(ctx, store.KeyCurrentUser)
	if err == store.ErrNotFound {
		raw = "{}"
	} else if err != nil {
		log.Printf("[Registry] Error reading current user: %v", err)
		return false
	}

	var current map[string]any
	if err := json.Unmarshal([]byte(raw), &current); err != nil {
		log.Printf("[Registry] Error parsing current user: %v", err)
		return false
	}

	for k, v := range partial {
		current[k] = v
	}

	merged, err := json.Marshal(current)
	if err != nil {
		log.Printf("[Registry] Error encoding updated user: %v", err)
		return false
	}

	if err := r.store.Set(ctx, store.KeyCurrentUser, string(merged)); err != nil {
		log.Printf("[Registry] Error saving updated user: %v", err)
		return false
	}
	if err := r.store.Set(ctx, store.KeyLegacyUser, string(merged)); err != nil {
		log.Printf("[Registry] Error saving legacy user record: %v", err)
		return false
	}

	email, _ := current["email"].(string)
	r.replaceInCollection(ctx, email, merged)

	return true
}

// replaceInCollection overwrites the collection entry whose email matches.
// Operates on raw maps so unmodelled fields are preserved end to end.
func (r *Registry) replaceInCollection(ctx context.Context, email string, record json.RawMessage) {
	raw, err := r.store.Get(ctx, store.KeyAllUsers)
	if err != nil {
		return
	}

	var users []map[string]any
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		log.Printf("[Registry] Error parsing all users: %v", err)
		return
	}

	for i, u := range users {
		if e, ok := u["email"].(string); ok && e == email {
			var merged map[string]any
			if err := json.Unmarshal(record, &merged); err != nil {
				return
			}
			users[i] = merged
			encoded, err := json.Marshal(users)
			if err != nil {
				return
			}
			if err := r.store.Set(ctx, store.KeyAllUsers, string(encoded)); err != nil {
				log.Printf("[Registry] Error saving all users: %v", err)
			}
			return
		}
	}
}

// Logout clears the session flag and the session record. The user
// collection is untouched, so future logins keep working.
func (r *Registry) Logout(ctx context.Context) {
	if err := r.store.Set(ctx, store.KeyLoggedIn, "false"); err != nil {
		log.Printf("[Registry] Error clearing session flag: %v", err)
	}
	if err := r.store.Remove(ctx, store.KeyCurrentUser); err != nil {
		log.Printf("[Registry] Error removing session record: %v", err)
	}
}

// Statistics aggregates the collection. Averages are zero when the
// collection is empty.
func (r *Registry) Statistics(ctx context.Context) Stats {
	users := r.AllUsers(ctx)

	stats := Stats{TotalUsers: len(users)}
	var totalRating float64
	for _, user := range users {
		stats.TotalEarnings += user.TotalEarned
		stats.TotalTasksCompleted += user.CompletedTasks
		totalRating += user.Rating
	}

	if len(users) > 0 {
		stats.AverageEarningsPerUser = stats.TotalEarnings / float64(len(users))
		stats.AverageRating = totalRating / float64(len(users))
	}
	return stats
}

// ExportData serializes the full collection as indented JSON.
func (r *Registry) ExportData(ctx context.Context) (string, error) {
	encoded, err := json.MarshalIndent(r.AllUsers(ctx), "", "  ")
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// ImportData replaces the stored collection with the given JSON array.
// Overwrite, not merge; the existing collection is untouched on failure.
func (r *Registry) ImportData(ctx context.Context, data string) ImportResult {
	var probe any
	if err := json.Unmarshal([]byte(data), &probe); err != nil {
		return ImportResult{Message: "Error parsing JSON data"}
	}
	if _, ok := probe.([]any); !ok {
		return ImportResult{Message: "Invalid data format"}
	}

	var users []json.RawMessage
	if err := json.Unmarshal([]byte(data), &users); err != nil {
		return ImportResult{Message: "Error parsing JSON data"}
	}

	encoded, err := json.Marshal(users)
	if err != nil {
		return ImportResult{Message: "Error parsing JSON data"}
	}

	if err := r.store.Set(ctx, store.KeyAllUsers, string(encoded)); err != nil {
		log.Printf("[Registry] Error importing users: %v", err)
		return ImportResult{Message: "Error parsing JSON data"}
	}

	return ImportResult{Success: true, Message: fmt.Sprintf("Imported %d users", len(users))}
}

// ClearAllData removes every key the registry owns, including the legacy
// aliases. Irreversible.
func (r *Registry) ClearAllData(ctx context.Context) {
	keys := []string{
		store.KeyLoggedIn,
		store.KeyCurrentUser,
		store.KeyAllUsers,
		store.KeyLegacyUser,
		store.KeyLegacyAllUsers,
	}
	for _, key := range keys {
		if err := r.store.Remove(ctx, key); err != nil {
			log.Printf("[Registry] Error removing %s: %v", key, err)
		}
	}
	log.Println("[Registry] All authentication data cleared")
}

func (r *Registry) saveUsers(ctx context.Context, users []User) error {
	encoded, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, store.KeyAllUsers, string(encoded))
}

func (r *Registry) setSession(ctx context.Context, user User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.KeyCurrentUser, string(encoded)); err != nil {
		return err
	}
	if err := r.store.Set(ctx, store.KeyLoggedIn, "true"); err != nil {
		return err
	}
	return r.store.Set(ctx, store.KeyLegacyUser, string(encoded))
}
