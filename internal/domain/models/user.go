package models

// User представляет пользователя (клиента пиццерии)
type User struct {
	ID       int64
	Username string
	Email    string
	PassHash []byte
}
