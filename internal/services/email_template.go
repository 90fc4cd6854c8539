package services

import "fmt"

// verificationEmailBody renders the HTML body of a verification email. The
// link embeds the signed token; the greeting uses the user's first name.
func verificationEmailBody(link, firstName string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #333333; margin: 0; padding: 24px;">
    <h2 style="color: #1a73e8;">Welcome to RoomHive, %s!</h2>
    <p>Thanks for signing up. Please confirm your email address to activate your account.</p>
    <p style="margin: 32px 0;">
      <a href="%s" style="background-color: #1a73e8; color: #ffffff; padding: 12px 24px; text-decoration: none; border-radius: 4px;">Verify my email</a>
    </p>
    <p>The link expires shortly. If it stops working, just open it again and we will send you a fresh one.</p>
    <p style="color: #888888; font-size: 12px;">If you did not create this account, you can safely ignore this email.</p>
  </body>
</html>`, firstName, link)
}
