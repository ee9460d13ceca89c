package types

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email    string `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password string `gorm:"not null;column:password" json:"-"`
	Disabled bool   `gorm:"not null;default:false;column:disabled" json:"disabled"`
}

func (User) TableName() string { return "user" }
