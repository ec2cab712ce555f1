package a

type sugared struct{}

func (sugared) Infoln(args ...interface{})                      {}
func (sugared) Debugw(msg string, keysAndValues ...interface{}) {}

type profile struct {
	Email    string
	Password string
}

func wrap(value string) string { return value }

func logProfile(log sugared, p profile) {
	log.Infoln("signing in", p.Email)
	log.Infoln("signing in", p.Password)                   // want "do not log a Password field"
	log.Debugw("signing in", "password", wrap(p.Password)) // want "do not log a Password field"
	_ = wrap(p.Password)
}
