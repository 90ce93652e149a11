package session

// Listener receives change notifications from a Session. Implementations
// must be comparable (usually pointers) so they can be removed again.
type Listener interface {
	OnInputsChanged()
	OnSettingsChanged()
	OnDataChanged()
	OnFinished(finished bool)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped.
type ListenerFuncs struct {
	InputsChanged   func()
	SettingsChanged func()
	DataChanged     func()
	Finished        func(finished bool)
}

func (l *ListenerFuncs) OnInputsChanged() {
	if l.InputsChanged != nil {
		l.InputsChanged()
	}
}

func (l *ListenerFuncs) OnSettingsChanged() {
	if l.SettingsChanged != nil {
		l.SettingsChanged()
	}
}

func (l *ListenerFuncs) OnDataChanged() {
	if l.DataChanged != nil {
		l.DataChanged()
	}
}

func (l *ListenerFuncs) OnFinished(finished bool) {
	if l.Finished != nil {
		l.Finished(finished)
	}
}

func (s *Session) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

func (s *Session) RemoveListener(l Listener) {
	kept := make([]Listener, 0, len(s.listeners))
	for _, x := range s.listeners {
		if x != l {
			kept = append(kept, x)
		}
	}
	s.listeners = kept
}

func (s *Session) notifyInputs() {
	for _, l := range s.listeners {
		l.OnInputsChanged()
	}
}

func (s *Session) notifySettings() {
	for _, l := range s.listeners {
		l.OnSettingsChanged()
	}
}

func (s *Session) notifyData() {
	for _, l := range s.listeners {
		l.OnDataChanged()
	}
}
