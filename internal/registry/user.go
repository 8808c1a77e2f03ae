package registry

import "time"

// User is a registered account. Field names match the persisted JSON
// format, so records written by older deployments parse unchanged.
type User struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Password       string  `json:"password"`
	Balance        float64 `json:"balance"`
	TotalEarned    float64 `json:"totalEarned"`
	CompletedTasks int     `json:"completedTasks"`
	Rating         float64 `json:"rating"`
	JoinedDate     string  `json:"joinedDate"`
	Subscribed     bool    `json:"subscribed"`
	PaymentMade    bool    `json:"paymentMade"`
	PaymentDate    string  `json:"paymentDate"`
	LastLoginDate  string  `json:"lastLoginDate,omitempty"`
}

// RegisterInput carries the fields accepted at registration. Optional
// fields fall back to the documented defaults; Subscribed and PaymentMade
// default to true unless explicitly set to false.
type RegisterInput struct {
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Password       string
	Balance        float64
	TotalEarned    float64
	CompletedTasks int
	Rating         float64
	JoinedDate     string
	Subscribed     *bool
	PaymentMade    *bool
	PaymentDate    string
}

// newUser builds a fully populated record from registration input.
func newUser(input RegisterInput) User {
	now := nowISO()
	user := User{
		ID:             time.Now().UnixMilli(),
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Email:          input.Email,
		Phone:          input.Phone,
		Password:       input.Password,
		Balance:        input.Balance,
		TotalEarned:    input.TotalEarned,
		CompletedTasks: input.CompletedTasks,
		Rating:         input.Rating,
		JoinedDate:     input.JoinedDate,
		Subscribed:     input.Subscribed == nil || *input.Subscribed,
		PaymentMade:    input.PaymentMade == nil || *input.PaymentMade,
		PaymentDate:    input.PaymentDate,
	}
	if user.JoinedDate == "" {
		user.JoinedDate = now
	}
	if user.PaymentDate == "" {
		user.PaymentDate = now
	}
	return user
}

// nowISO formats the current time the way the stored records expect,
// e.g. 2026-08-31T10:15:04.231Z.
func nowISO() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}
