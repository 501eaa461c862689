package engine

import "fmt"

// Support is how a storage engine is available on the server
type Support int

const (
	SupportNo Support = iota
	SupportDisabled
	SupportYes
	SupportDefault
)

// ParseSupport maps the Support column of SHOW STORAGE ENGINES
func ParseSupport(text string) Support {
	switch text {
	case "DEFAULT":
		return SupportDefault
	case "YES":
		return SupportYes
	case "DISABLED":
		return SupportDisabled
	}
	return SupportNo
}

func (s Support) String() string {
	switch s {
	case SupportDefault:
		return "DEFAULT"
	case SupportYes:
		return "YES"
	case SupportDisabled:
		return "DISABLED"
	}
	return "NO"
}

// Message returns the support information sentence for an engine title
func (s Support) Message(title string) string {
	switch s {
	case SupportDefault:
		return fmt.Sprintf("%s is the default storage engine on this MySQL server.", title)
	case SupportYes:
		return fmt.Sprintf("%s is available on this MySQL server.", title)
	case SupportDisabled:
		return fmt.Sprintf("%s has been disabled for this MySQL server.", title)
	}
	return fmt.Sprintf("This MySQL server does not support the %s storage engine.", title)
}

// DetailsType tells how a variable value is displayed
type DetailsType int

const (
	DetailsPlaintext DetailsType = iota
	DetailsSize
	DetailsNumeric
	DetailsBoolean // ON or OFF
)

func (d DetailsType) String() string {
	switch d {
	case DetailsSize:
		return "size"
	case DetailsNumeric:
		return "numeric"
	case DetailsBoolean:
		return "boolean"
	}
	return "plaintext"
}
