package schema

// User is the read-only view of the host's users table
type User struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Username  string `gorm:"column:username;not null;type:varchar(100)"`
	FirstName string `gorm:"column:firstname;not null;default:'';type:varchar(100)"`
	LastName  string `gorm:"column:lastname;not null;default:'';type:varchar(100)"`
	Email     string `gorm:"column:email;not null;default:'';type:varchar(255)"`
	Address   string `gorm:"column:address;not null;default:'';type:varchar(255)"`
	City      string `gorm:"column:city;not null;default:'';type:varchar(120)"`
	Country   string `gorm:"column:country;not null;default:'';type:varchar(2)"`
	// IsSiteAdmin marks site administrators, the fallback alert recipients
	IsSiteAdmin bool `gorm:"column:is_site_admin;not null;default:false"`
	// ReceivePayPalNotifications marks users holding the receivenotifications capability
	ReceivePayPalNotifications bool `gorm:"column:receive_paypal_notifications;not null;default:false"`
	Deleted                    bool `gorm:"column:deleted;not null;default:false"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns "first last"
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
