package domain

// User-facing denial messages. The portal's audience is German-speaking;
// these strings are rendered to the client verbatim and are deliberately
// generic so that login failures do not reveal whether an account exists.
const (
	MsgInvalidCredentials = "Ungültige Anmeldedaten. Bitte überprüfen Sie E-Mail-Adresse und Passwort."
	MsgRateLimited        = "Zu viele fehlgeschlagene Anmeldeversuche. Bitte warten Sie 15 Minuten und versuchen Sie es erneut."
	MsgSSOLoginRequired   = "Für dieses Konto ist kein Passwort hinterlegt. Bitte melden Sie sich über den SSO-Login an."
	MsgInvalidEmail       = "Bitte geben Sie eine gültige E-Mail-Adresse ein."
	MsgDatabaseError      = "Ein Datenbankfehler ist aufgetreten. Bitte versuchen Sie es später erneut."
	MsgLoginSuccessful    = "Anmeldung erfolgreich."
	MsgSessionExpired     = "Ihre Sitzung ist abgelaufen. Bitte melden Sie sich erneut an."
	MsgNotAuthenticated   = "Bitte melden Sie sich an, um fortzufahren."
	MsgForbidden          = "Sie haben keine Berechtigung für diese Aktion."
	MsgCSRFInvalid        = "Ungültiges oder fehlendes Sicherheitstoken. Bitte laden Sie die Seite neu."

	MsgMissingFields        = "Bitte füllen Sie alle Pflichtfelder aus."
	MsgPasswordTooShort     = "Das Passwort muss mindestens 8 Zeichen lang sein."
	MsgWeakPassword         = "Das neue Passwort muss mindestens 12 Zeichen lang sein und Groß- und Kleinbuchstaben, Ziffern sowie Sonderzeichen enthalten."
	MsgPasswordUnchanged    = "Das neue Passwort darf nicht mit dem aktuellen übereinstimmen."
	MsgEmailTaken           = "Diese E-Mail-Adresse ist bereits registriert."
	MsgAccountNotFound      = "Das Konto wurde nicht gefunden."
	MsgConfirmationMismatch = "Die eingegebene E-Mail-Adresse stimmt nicht mit dem Konto überein."
)
