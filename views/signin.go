package views

// SignInParams drives the sign-in page and its form.
type SignInParams struct {
	// ReturnTo is the already validated destination.
	ReturnTo string
	// External marks a destination outside the application origin.
	External        bool
	Email           string
	Error           string
	PasswordEnabled bool
	GoogleEnabled   bool
	PasswordAction  string
	GoogleURL       string
}
