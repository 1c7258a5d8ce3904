package domain

// Mode says whether an order is processed by hand or automatically.
type Mode int

const (
	ModeManual Mode = iota
	ModeAuto
)

func Modes() []Mode {
	return []Mode{ModeManual, ModeAuto}
}

func (m Mode) Valid() bool {
	return m == ModeManual || m == ModeAuto
}

func (m Mode) LabelKey() string {
	if m == ModeAuto {
		return "mode.auto"
	}
	return "mode.manual"
}

func ModeFromValue(v int) (Mode, bool) {
	m := Mode(v)
	return m, m.Valid()
}
