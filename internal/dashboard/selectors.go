package dashboard

// Login form selectors. These track the hosted sign-in widget and break when
// it is restyled.
const (
	EmailInput    = `input[type='email'], input[name='identifier']`
	PasswordInput = `input[type='password']`
	SubmitButton  = `button`
	ContinueLabel = `/continue/i`

	dashboardPath = "/dashboard"
)
