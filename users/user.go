package users

// User is one row of the user_data table.
type User struct {
	UserID string `db:"user_id"`
	Name   string `db:"name"`
	Email  string `db:"email"`
	Age    int    `db:"age"`
}

// OlderThan keeps users strictly older than age.
func OlderThan(age int) func(User) bool {
	return func(u User) bool {
		return u.Age > age
	}
}
