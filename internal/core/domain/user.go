package domain

type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Password string `db:"password"` // bcrypt hashed
}

func NewUser(username, hashedPassword string) *User {
	return &User{
		Username: username,
		Password: hashedPassword,
	}
}
