package forms

import (
	"yatube/internal/validation"
)

// SignupForm registers a new user.
type SignupForm struct {
	Form

	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

func NewSignupForm() *SignupForm {
	return &SignupForm{
		Form: newForm(
			&Field{Name: "first_name", Label: "First name", Widget: "text"},
			&Field{Name: "last_name", Label: "Last name", Widget: "text"},
			&Field{
				Name:     "username",
				Label:    "Username",
				HelpText: "Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only.",
				Widget:   "text",
				Required: true,
			},
			&Field{Name: "email", Label: "Email address", Widget: "email", Required: true},
			&Field{Name: "password", Label: "Password", Widget: "password", Required: true},
		),
	}
}

func (f *SignupForm) Bind(get Getter) *SignupForm {
	f.bind(get)

	f.FirstName = f.Field("first_name").Value
	f.LastName = f.Field("last_name").Value
	f.Username = f.Field("username").Value
	f.Email = f.Field("email").Value
	f.Password = f.Field("password").Value

	if f.Username != "" {
		if err := validation.ValidateUsername(f.Username); err != nil {
			f.AddError("username", err.Error())
		}
	}
	if f.Email != "" {
		if err := validation.ValidateEmail(f.Email); err != nil {
			f.AddError("email", err.Error())
		}
	}
	if f.Password != "" {
		if err := validation.ValidatePassword(f.Password, f.Username); err != nil {
			f.AddError("password", err.Error())
		}
	}
	// Never echo the password back into the page.
	f.Field("password").Value = ""
	return f
}

func (f *SignupForm) IsValid() bool {
	return f.valid()
}

// LoginForm authenticates an existing user.
type LoginForm struct {
	Form

	Username string
	Password string
}

func NewLoginForm() *LoginForm {
	return &LoginForm{
		Form: newForm(
			&Field{Name: "username", Label: "Username", Widget: "text", Required: true},
			&Field{Name: "password", Label: "Password", Widget: "password", Required: true},
		),
	}
}

func (f *LoginForm) Bind(get Getter) *LoginForm {
	f.bind(get)
	f.Username = f.Field("username").Value
	f.Password = f.Field("password").Value
	f.Field("password").Value = ""
	return f
}

func (f *LoginForm) IsValid() bool {
	return f.valid()
}
