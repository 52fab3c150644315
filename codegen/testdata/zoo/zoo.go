package zoo

import (
	"time"

	dec "github.com/shopspring/decimal"
)

//typecodec:generate name=zoo.Keeper
type Keeper struct {
	Name  string              `codec:"name,required"`
	Hired time.Time           `codec:"hired"`
	Wage  dec.Decimal         `codec:"wage,omitempty"`
	Pens  map[string]*Pen     `codec:"pens"`
	Tags  map[string]struct{} `codec:"tags"`
	notes string
}

// Pen holds animals.
//
//typecodec:generate
type Pen struct {
	ID       int    `codec:"id"`
	Capacity int    `codec:",default=4"`
	Next     *Pen   `codec:"next,always"`
	Photo    []byte `codec:"photo"`
	Scratch  string `codec:"-"`
	Nick     *string
}

// Visitor is not generated.
type Visitor struct {
	Name string
}
