package heap

// BlockNoRoomError reports that a block cannot accommodate the requested
// payload or growth. HeapTable recovers from it once by rolling over to a
// fresh block.
type BlockNoRoomError struct {
	Msg string
}

func (e *BlockNoRoomError) Error() string {
	return e.Msg
}

// RelationError reports a schema violation or an unsupported feature. It is
// never recovered.
type RelationError struct {
	Msg string
}

func (e *RelationError) Error() string {
	return e.Msg
}
