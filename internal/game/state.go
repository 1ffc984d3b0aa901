package game

import "encoding/json"

type State int

const (
	Waiting State = iota
	Playing
	Terminated
)

var stateNames = map[State]string{
	Waiting:    "waiting",
	Playing:    "playing",
	Terminated: "terminated",
}

var stateFromName = map[string]State{
	"waiting":    Waiting,
	"playing":    Playing,
	"terminated": Terminated,
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	if v, ok := stateFromName[name]; ok {
		*s = v
	}
	return nil
}
