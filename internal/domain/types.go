package domain

// AgentState - состояние автомата агента.
type AgentState uint8

const (
	StateIdle AgentState = iota
	StateRouting
	StateMoving
	StateEncounterCheck
	StateTalking
	StateTerminated
)

func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRouting:
		return "ROUTING"
	case StateMoving:
		return "MOVING"
	case StateEncounterCheck:
		return "ENCOUNTER_CHECK"
	case StateTalking:
		return "TALKING"
	case StateTerminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

func (s AgentState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Role - роль в разговоре.
type Role uint8

const (
	RoleInitiator Role = 0
	RoleResponder Role = 1
)

func (r Role) String() string {
	if r == RoleInitiator {
		return "initiator"
	}
	return "responder"
}
