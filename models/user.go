// models/user.go
package models

import "time"

type User struct {
	ID           string     `bson:"_id,omitempty" json:"id"`
	Name         string     `bson:"name" json:"name"`
	Email        string     `bson:"email" json:"email"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	Role         string     `bson:"role" json:"role"` // superadmin, admin, user
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	DeletedAt    *time.Time `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}
