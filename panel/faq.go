package panel

import "strings"

// faqEntry pairs trigger phrases with a canned support answer. These
// account questions have fixed answers and never need the database.
type faqEntry struct {
	triggers []string
	answer   string
}

var faqEntries = []faqEntry{
	{
		triggers: []string{"change email", "change my email", "update email", "email id"},
		answer: "To change the email address on your account, go to your profile " +
			"settings and select Edit Email. A verification link will be sent to " +
			"the new address before the change takes effect.",
	},
	{
		triggers: []string{"update profile", "update my profile", "edit profile", "change profile"},
		answer: "You can update your profile from the account menu under Profile " +
			"Settings. Keeping your specialty and practice details current helps " +
			"us match you with relevant surveys.",
	},
	{
		triggers: []string{"payment method", "payment methods", "payout method", "how do i get paid", "how am i paid"},
		answer: "Honoraria can be paid out via PayPal, direct deposit, or gift " +
			"card. Choose or change your payout method under Payment Settings in " +
			"your account menu.",
	},
	{
		triggers: []string{"forgot password", "forgot my password", "reset password", "reset my password"},
		answer: "Use the Forgot Password link on the sign-in page. We will email " +
			"you a reset link valid for 24 hours. If it does not arrive, check " +
			"your spam folder or contact panel support.",
	},
}

// StaticAnswer returns the canned answer for common account questions.
// Returns ok=false when the query is not one of them.
func StaticAnswer(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, entry := range faqEntries {
		for _, trigger := range entry.triggers {
			if strings.Contains(q, trigger) {
				return entry.answer, true
			}
		}
	}
	return "", false
}
