package magickit

// callConv normalizes the two native signature generations behind one
// argument list. The flagged convention passes the trailing flags
// argument through; the legacy convention drops it and calls the old
// signatures. A dispatcher picks its convention once, from the
// capability table, never per call.
type callConv interface {
	load(lib Library, database string, flags Flag) int
	compile(lib Library, database string, flags Flag) int
	check(lib Library, database string, flags Flag) int
	file(lib Library, name string, flags Flag) (string, bool)
	buffer(lib Library, data []byte, flags Flag) (string, bool)
	descriptor(lib Library, fd int, flags Flag) (string, bool)
}

// convFor selects the convention matching the linked library.
func convFor(caps VersionCapabilities) callConv {
	if caps.FlagsArgument {
		return flaggedCalls{}
	}
	return legacyCalls{}
}

type flaggedCalls struct{}

func (flaggedCalls) load(lib Library, database string, flags Flag) int {
	return lib.LoadWithFlags(database, flags)
}

func (flaggedCalls) compile(lib Library, database string, flags Flag) int {
	return lib.CompileWithFlags(database, flags)
}

func (flaggedCalls) check(lib Library, database string, flags Flag) int {
	return lib.CheckWithFlags(database, flags)
}

func (flaggedCalls) file(lib Library, name string, flags Flag) (string, bool) {
	return lib.FileWithFlags(name, flags)
}

func (flaggedCalls) buffer(lib Library, data []byte, flags Flag) (string, bool) {
	return lib.BufferWithFlags(data, flags)
}

func (flaggedCalls) descriptor(lib Library, fd int, flags Flag) (string, bool) {
	return lib.DescriptorWithFlags(fd, flags)
}

type legacyCalls struct{}

func (legacyCalls) load(lib Library, database string, flags Flag) int {
	return lib.Load(database)
}

func (legacyCalls) compile(lib Library, database string, flags Flag) int {
	return lib.Compile(database)
}

func (legacyCalls) check(lib Library, database string, flags Flag) int {
	return lib.Check(database)
}

func (legacyCalls) file(lib Library, name string, flags Flag) (string, bool) {
	return lib.File(name)
}

func (legacyCalls) buffer(lib Library, data []byte, flags Flag) (string, bool) {
	return lib.Buffer(data)
}

func (legacyCalls) descriptor(lib Library, fd int, flags Flag) (string, bool) {
	return lib.Descriptor(fd)
}
