package slugs

import (
	hashids "github.com/speps/go-hashids/v2"
)

// Encoder turns internal profile ids into short public slugs so public URLs
// never expose raw row ids.
type Encoder struct {
	h *hashids.HashID
}

func NewEncoder(salt string) (*Encoder, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 8

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return &Encoder{h: h}, nil
}

func (e *Encoder) Encode(id int64) (string, error) {
	return e.h.EncodeInt64([]int64{id})
}

func (e *Encoder) Decode(slug string) (int64, error) {
	ids, err := e.h.DecodeInt64WithError(slug)
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}
