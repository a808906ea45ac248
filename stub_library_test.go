package magickit

// stubLibrary is a scriptable Library for exercising the dispatcher
// without a native magic library. Every call is counted so tests can
// assert that locally-rejected operations never reach the native layer.
type stubLibrary struct {
	calls map[string]int

	loadRV     int
	compileRV  int
	checkRV    int
	setFlagsRV int

	result string
	ok     bool

	version int
	path    string

	lastErrno int
	lastMsg   string

	// flagged records whether the most recent call came in through a
	// flags-trailing variant.
	flagged bool

	gotDatabase string
	gotFlags    Flag
	gotFD       int

	// hooks, invoked inside the guarded call when set
	onLoad       func()
	onDescriptor func(fd int)
}

func newStubLibrary() *stubLibrary {
	return &stubLibrary{
		calls:  make(map[string]int),
		ok:     true,
		result: "ASCII text",
		path:   "/usr/share/misc/magic",
	}
}

func (s *stubLibrary) totalCalls() int {
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *stubLibrary) Close() { s.calls["close"]++ }

func (s *stubLibrary) Load(database string) int {
	s.calls["load"]++
	s.gotDatabase = database
	if s.onLoad != nil {
		s.onLoad()
	}
	return s.loadRV
}

func (s *stubLibrary) LoadWithFlags(database string, flags Flag) int {
	s.flagged = true
	s.gotFlags = flags
	return s.Load(database)
}

func (s *stubLibrary) Compile(database string) int {
	s.calls["compile"]++
	s.gotDatabase = database
	return s.compileRV
}

func (s *stubLibrary) CompileWithFlags(database string, flags Flag) int {
	s.flagged = true
	s.gotFlags = flags
	return s.Compile(database)
}

func (s *stubLibrary) Check(database string) int {
	s.calls["check"]++
	s.gotDatabase = database
	return s.checkRV
}

func (s *stubLibrary) CheckWithFlags(database string, flags Flag) int {
	s.flagged = true
	s.gotFlags = flags
	return s.Check(database)
}

func (s *stubLibrary) File(name string) (string, bool) {
	s.calls["file"]++
	return s.result, s.ok
}

func (s *stubLibrary) FileWithFlags(name string, flags Flag) (string, bool) {
	s.flagged = true
	s.gotFlags = flags
	return s.File(name)
}

func (s *stubLibrary) Buffer(data []byte) (string, bool) {
	s.calls["buffer"]++
	return s.result, s.ok
}

func (s *stubLibrary) BufferWithFlags(data []byte, flags Flag) (string, bool) {
	s.flagged = true
	s.gotFlags = flags
	return s.Buffer(data)
}

func (s *stubLibrary) Descriptor(fd int) (string, bool) {
	s.calls["descriptor"]++
	s.gotFD = fd
	if s.onDescriptor != nil {
		s.onDescriptor(fd)
	}
	return s.result, s.ok
}

func (s *stubLibrary) DescriptorWithFlags(fd int, flags Flag) (string, bool) {
	s.flagged = true
	s.gotFlags = flags
	return s.Descriptor(fd)
}

func (s *stubLibrary) DatabasePath() string {
	s.calls["path"]++
	return s.path
}

func (s *stubLibrary) SetFlags(flags Flag) int {
	s.calls["setflags"]++
	s.gotFlags = flags
	return s.setFlagsRV
}

func (s *stubLibrary) Version() int {
	s.calls["version"]++
	return s.version
}

func (s *stubLibrary) LastError() (int, string) {
	return s.lastErrno, s.lastMsg
}
