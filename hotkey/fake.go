package hotkey

// FakeSource is a test double that fires toggles on demand.
type FakeSource struct {
	toggled    chan struct{}
	registered bool
}

func NewFake() *FakeSource {
	return &FakeSource{toggled: make(chan struct{}, 8)}
}

func (f *FakeSource) Register() error {
	f.registered = true
	return nil
}

func (f *FakeSource) Unregister() {
	f.registered = false
}

func (f *FakeSource) Toggled() <-chan struct{} { return f.toggled }

func (f *FakeSource) SimToggle() { f.toggled <- struct{}{} }

func (f *FakeSource) Registered() bool { return f.registered }
