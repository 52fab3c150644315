package bad

//typecodec:generate
type Ticket struct {
	Holder Visitor
}

type Visitor struct {
	Name string
}
