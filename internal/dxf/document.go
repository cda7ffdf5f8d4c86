package dxf

// Layer is one entry of the LAYER table.
type Layer struct {
	Name     string
	Color    int
	LineType string
}

// Block is a named block definition with its member entities.
type Block struct {
	Name     string
	Base     Point
	Entities []*Entity
}

// HeaderVar is one $NAME header variable with its raw tags.
type HeaderVar struct {
	Name string
	Tags []Tag
}

// Document is a parsed drawing: header variables, layer table, block
// definitions, and modelspace entities in file order.
type Document struct {
	Header   []HeaderVar
	Layers   []Layer
	Blocks   []*Block
	Entities []*Entity

	blockIndex map[string]*Block
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{blockIndex: make(map[string]*Block)}
}

// BlockByName looks up a block definition, or nil if absent.
func (d *Document) BlockByName(name string) *Block {
	if d.blockIndex == nil {
		d.blockIndex = make(map[string]*Block, len(d.Blocks))
		for _, b := range d.Blocks {
			d.blockIndex[b.Name] = b
		}
	}
	return d.blockIndex[name]
}

// AddBlock appends a block definition and indexes it by name.
func (d *Document) AddBlock(b *Block) {
	d.Blocks = append(d.Blocks, b)
	if d.blockIndex == nil {
		d.blockIndex = make(map[string]*Block)
	}
	d.blockIndex[b.Name] = b
}

// AddLayer appends a layer table entry.
func (d *Document) AddLayer(l Layer) {
	d.Layers = append(d.Layers, l)
}

// AddEntity appends a modelspace entity.
func (d *Document) AddEntity(e *Entity) {
	d.Entities = append(d.Entities, e)
}
