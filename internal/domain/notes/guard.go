package notes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

const (
	MaxSubjectLen  = 200
	MaxBodyTextLen = 20000
	MaxRefLen      = 128
	maxRichDocSize = 256 << 10
)

// CreateInput son los campos que acepta una creación. ID, CreatedAt, Status y
// AuthorRef nunca vienen del caller.
type CreateInput struct {
	OwnerRef       string
	AccountRef     *string
	ApplicationRef *string

	Category  Category
	Direction Direction
	Priority  Priority
	Sentiment Sentiment

	Subject string
	Body    Body

	AmendsRef *string
}

// createPayload es la vista validable de CreateInput (tags de validator).
type createPayload struct {
	OwnerRef       string `field:"owner_ref" validate:"required,max=128"`
	AccountRef     string `field:"account_ref" validate:"omitempty,max=128"`
	ApplicationRef string `field:"application_ref" validate:"omitempty,max=128"`
	AmendsRef      string `field:"amends_ref" validate:"omitempty,max=128"`
	Category       string `field:"category" validate:"required,oneof=call email meeting sms visit complaint collection general"`
	Direction      string `field:"direction" validate:"omitempty,oneof=inbound outbound"`
	Priority       string `field:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Sentiment      string `field:"sentiment" validate:"omitempty,oneof=positive neutral negative"`
	Subject        string `field:"subject" validate:"required,max=200"`
	BodyFormat     string `field:"body.format" validate:"required,oneof=text rich"`
	BodyText       string `field:"body.text" validate:"max=20000"`
}

// Guard aplica el contrato de mutación de las notas: en create sella los campos
// de sistema, en update solo deja pasar status=amended.
type Guard struct {
	v *validatorv10.Validate
}

func NewGuard() *Guard {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}
		return f.Name
	})
	return &Guard{v: v}
}

// PrepareCreate valida y normaliza la entrada, y devuelve la nota lista para
// insertar (sin ID ni CreatedAt: los asigna el store).
func (g *Guard) PrepareCreate(actor Actor, in CreateInput) (Note, error) {
	author := strings.TrimSpace(actor.ID)
	if author == "" {
		return Note{}, ErrUnauthenticated
	}

	subject := norm.NFC.String(strings.TrimSpace(in.Subject))
	body := Body{
		Format: in.Body.Format,
		Text:   strings.TrimSpace(in.Body.Text),
		Doc:    in.Body.Doc,
	}
	if body.Format == "" {
		body.Format = BodyFormatText
	}

	p := createPayload{
		OwnerRef:       strings.TrimSpace(in.OwnerRef),
		AccountRef:     strings.TrimSpace(derefStr(in.AccountRef)),
		ApplicationRef: strings.TrimSpace(derefStr(in.ApplicationRef)),
		AmendsRef:      strings.TrimSpace(derefStr(in.AmendsRef)),
		Category:       string(in.Category),
		Direction:      string(in.Direction),
		Priority:       string(in.Priority),
		Sentiment:      string(in.Sentiment),
		Subject:        subject,
		BodyFormat:     string(body.Format),
		BodyText:       body.Text,
	}
	if err := g.v.Struct(p); err != nil {
		return Note{}, toValidationError(err)
	}
	if err := checkBody(body); err != nil {
		return Note{}, err
	}

	n := Note{
		OwnerRef: p.OwnerRef,
		Links: Links{
			AccountRef:     optionalRef(p.AccountRef),
			ApplicationRef: optionalRef(p.ApplicationRef),
		},
		Classification: Classification{
			Category:  in.Category,
			Direction: in.Direction,
			Priority:  in.Priority,
			Sentiment: in.Sentiment,
		},
		Subject:   subject,
		Body:      body,
		AuthorRef: author,
		AmendsRef: optionalRef(p.AmendsRef),
		Status:    StatusActive,
	}
	return n, nil
}

// CheckUpdate decide el efecto de un patch sobre la nota actual.
// Devuelve write=false cuando el patch es un no-op (sin status, o ya amended).
func (g *Guard) CheckUpdate(current Note, p Patch) (target Status, write bool, err error) {
	if p.Status == nil {
		return current.Status, false, nil
	}
	if err := CheckTransition(*p.Status); err != nil {
		return current.Status, false, err
	}
	if current.Status == StatusAmended {
		return StatusAmended, false, nil
	}
	return StatusAmended, true, nil
}

// CheckTransition acepta únicamente el valor terminal.
func CheckTransition(to Status) error {
	if to != StatusAmended {
		return fmt.Errorf("%w: status %q not allowed", ErrInvalidStateTransition, to)
	}
	return nil
}

// Patch es un update ya filtrado: solo status sobrevive, el resto se descarta.
type Patch struct {
	Status  *Status
	Dropped []string
}

// PatchFromJSON arma un Patch desde un body JSON arbitrario. Los campos que no
// son status se ignoran (payloads "superset" de clientes simples).
func PatchFromJSON(raw map[string]json.RawMessage) (Patch, error) {
	var p Patch
	for k, v := range raw {
		if k != "status" {
			p.Dropped = append(p.Dropped, k)
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return Patch{}, fmt.Errorf("%w: status must be %q", ErrInvalidStateTransition, StatusAmended)
		}
		st := Status(strings.TrimSpace(s))
		p.Status = &st
	}
	sort.Strings(p.Dropped)
	return p, nil
}

func checkBody(b Body) error {
	switch b.Format {
	case BodyFormatText:
		if b.Text == "" {
			return invalidField("body.text", "required")
		}
	case BodyFormatRich:
		if err := checkRichDoc(b.Doc); err != nil {
			return err
		}
	}
	return nil
}

// checkRichDoc: raíz {"type":"doc","content":[...]} y cada nodo hijo con "type".
func checkRichDoc(doc json.RawMessage) error {
	if len(bytes.TrimSpace(doc)) == 0 {
		return invalidField("body.doc", "required")
	}
	if len(doc) > maxRichDocSize {
		return invalidField("body.doc", "too large")
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(doc, &root); err != nil {
		return invalidField("body.doc", "must be a json object")
	}

	var typ string
	if err := json.Unmarshal(root["type"], &typ); err != nil || typ != "doc" {
		return invalidField("body.doc", `root type must be "doc"`)
	}

	raw := bytes.TrimSpace(root["content"])
	var content []map[string]json.RawMessage
	if len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &content) != nil {
		return invalidField("body.doc", "content must be an array of nodes")
	}
	for i, node := range content {
		var nt string
		if err := json.Unmarshal(node["type"], &nt); err != nil || strings.TrimSpace(nt) == "" {
			return invalidField("body.doc", fmt.Sprintf("content[%d] missing type", i))
		}
	}
	return nil
}

func toValidationError(err error) error {
	var ve validatorv10.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return invalidField(fe.Field(), reason)
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func optionalRef(s string) *string {
	if s == "" {
		return nil
	}
	return strPtr(s)
}
