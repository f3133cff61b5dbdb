package phone

type Core interface {
	FormatPhone(raw string) string
}
