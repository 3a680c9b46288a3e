package protocol

// StatusWord is the bit-field pushed by the device in ESTADO_CAMPANARIO frames.
type StatusWord int

// Status word bits.
const (
	BitSecuencia            StatusWord = 0x01 // bell sequence running
	BitLibre1               StatusWord = 0x02
	BitLibre2               StatusWord = 0x04
	BitHora                 StatusWord = 0x08 // hourly chime enabled
	BitCuartos              StatusWord = 0x10 // quarter chimes enabled
	BitCalefaccion          StatusWord = 0x20 // heating on
	BitSinInternet          StatusWord = 0x40
	BitProteccionCampanadas StatusWord = 0x80 // manual bell triggers locked
)

// Has reports whether every bit of mask is set.
func (w StatusWord) Has(mask StatusWord) bool {
	return w&mask == mask
}

// StatusFlags is the decoded, read-only view of a status word.
type StatusFlags struct {
	Raw            int  `json:"raw"`
	SequenceActive bool `json:"sequence_active"`
	HourChime      bool `json:"hour_chime"`
	QuarterChime   bool `json:"quarter_chime"`
	Heating        bool `json:"heating"`
	NoInternet     bool `json:"no_internet"`
	Protection     bool `json:"protection"`
}

// Flags expands the word. Reserved bits are kept in Raw only.
func (w StatusWord) Flags() StatusFlags {
	return StatusFlags{
		Raw:            int(w),
		SequenceActive: w.Has(BitSecuencia),
		HourChime:      w.Has(BitHora),
		QuarterChime:   w.Has(BitCuartos),
		Heating:        w.Has(BitCalefaccion),
		NoInternet:     w.Has(BitSinInternet),
		Protection:     w.Has(BitProteccionCampanadas),
	}
}
