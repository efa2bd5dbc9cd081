package domain

import (
	"time"
)

// UserProfile профиль пользователя с данными рождения
// user_id - стабильный идентификатор из claim "sub" токена
type UserProfile struct {
	UserID        string    `json:"user_id" db:"user_id"`
	Email         *string   `json:"email,omitempty" db:"email"`
	FirstName     string    `json:"first_name" db:"first_name"`
	LastName      string    `json:"last_name" db:"last_name"`
	BirthDate     string    `json:"birth_date" db:"birth_date"`         // YYYY-MM-DD
	BirthTime     string    `json:"birth_time" db:"birth_time"`         // HH:MM (24ч)
	BirthLocation string    `json:"birth_location" db:"birth_location"` // "New York, NY"
	BirthCountry  string    `json:"birth_country" db:"birth_country"`   // "United States"
	ZodiacSign    string    `json:"zodiac_sign" db:"zodiac_sign"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// FullName полное имя для подстановки в запрос к астро-API
func (p *UserProfile) FullName() string {
	name := p.FirstName
	if p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += p.LastName
	}
	if name == "" {
		return "User"
	}
	return name
}
