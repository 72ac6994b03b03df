package users

import "time"

type User struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	Email               string    `bson:"email" json:"email"`
	Name                string    `bson:"name" json:"name"`
	Age                 *int      `bson:"age,omitempty" json:"age,omitempty"`
	Mobile              string    `bson:"mobile,omitempty" json:"mobile,omitempty"`
	Citizenship         string    `bson:"citizenship,omitempty" json:"citizenship,omitempty"`
	Language            string    `bson:"language" json:"language"`
	Role                string    `bson:"role" json:"role"`
	Trade               string    `bson:"trade,omitempty" json:"trade,omitempty"`
	Password            string    `bson:"password" json:"-"`
	VaxStatus           *bool     `bson:"vax_status,omitempty" json:"vax_status,omitempty"`
	CreditCardEncrypted string    `bson:"credit_card_encrypted,omitempty" json:"-"`
	ConsentVax          bool      `bson:"consent_vax" json:"consent_vax"`
	ConsentData         bool      `bson:"consent_data" json:"consent_data"`
	EmailVerified       bool      `bson:"email_verified" json:"email_verified"`
	CreatedAt           time.Time `bson:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required"`
	Age         *int   `json:"age,omitempty" validate:"omitempty,gte=0"`
	Mobile      string `json:"mobile,omitempty"`
	Citizenship string `json:"citizenship,omitempty"`
	Language    string `json:"language,omitempty"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=client provider admin"`
	Trade       string `json:"trade,omitempty"`
	VaxStatus   *bool  `json:"vax_status,omitempty"`
	CreditCard  string `json:"credit_card,omitempty"`
	ConsentVax  bool   `json:"consent_vax"`
	ConsentData *bool  `json:"consent_data,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
