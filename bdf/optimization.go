package bdf

import (
	"strconv"
	"strings"
)

// unbounded stands in for a bound the card leaves open.
const unbounded = 1e20

// DesVar is one design variable: an initial value with bounds the
// optimizer moves it within.
type DesVar struct {
	baseCard
	id    int
	Label string
	XInit float64
	XLB   float64 // lower bound, default -1e20
	XUB   float64 // upper bound, default 1e20
	Delx  Field   // move limit fraction, blank = solver default
	DDVal int     // discrete value set id, 0 = continuous
}

// NewDesVar builds an unbounded design variable starting at xinit.
func NewDesVar(id int, label string, xinit float64) *DesVar {
	return &DesVar{id: id, Label: strings.ToUpper(label), XInit: xinit, XLB: -unbounded, XUB: unbounded}
}

func (v *DesVar) Type() string { return "DESVAR" }
func (v *DesVar) ID() int      { return v.id }

// Clamp bounds a candidate value into the variable's range.
func (v *DesVar) Clamp(x float64) float64 {
	if x < v.XLB {
		return v.XLB
	}
	if x > v.XUB {
		return v.XUB
	}
	return x
}

func (v *DesVar) RawFields() []Field {
	xlb := Blank()
	if v.XLB != -unbounded {
		xlb = FloatField(v.XLB)
	}
	xub := Blank()
	if v.XUB != unbounded {
		xub = FloatField(v.XUB)
	}
	return []Field{
		StrField("DESVAR"), IntField(v.id), StrField(v.Label), FloatField(v.XInit),
		xlb, xub, v.Delx, intOrBlank(v.DDVal),
	}
}

func (v *DesVar) References() []Ref { return noRefs }

func (v *DesVar) Validate() []Issue {
	issues := schemaIssues(v)
	issues = append(issues, validateLabel("DESVAR", v.id, v.Label)...)
	if v.XLB > v.XUB {
		issues = append(issues, issuef("DESVAR", v.id, "XUB", "bounds are inverted (XLB %g > XUB %g)", v.XLB, v.XUB))
	}
	if v.XInit < v.XLB || v.XInit > v.XUB {
		issues = append(issues, issuef("DESVAR", v.id, "XINIT", "initial value %g outside [%g, %g]", v.XInit, v.XLB, v.XUB))
	}
	return issues
}

func validateLabel(card string, id int, label string) []Issue {
	var issues []Issue
	if label == "" {
		issues = append(issues, issuef(card, id, "LABEL", "label required"))
	}
	if len(label) > 8 {
		issues = append(issues, issuef(card, id, "LABEL", "label %q longer than 8 characters", label))
	}
	return issues
}

func parseDesVar(c *CardRec) (Card, error) {
	return &DesVar{
		id: c.Int(1), Label: c.Str(2), XInit: c.Float(3),
		XLB: c.Float(4), XUB: c.Float(5), Delx: c.FieldAt(6), DDVal: c.Int(7),
	}, nil
}

// Response is the measured quantity of a design response card. The
// concrete variants carry what their response type needs and nothing
// else.
type Response interface {
	// ResponseType returns the response keyword, e.g. "STRESS".
	ResponseType() string

	respFields() (ptype, atta, attb Field, atts []Field)
	respRefs() []Ref
	respValidate(id int) []Issue
}

// WeightResponse measures total structural weight.
type WeightResponse struct{}

func (WeightResponse) ResponseType() string { return "WEIGHT" }
func (WeightResponse) respFields() (Field, Field, Field, []Field) {
	return Blank(), Blank(), Blank(), nil
}
func (WeightResponse) respRefs() []Ref          { return noRefs }
func (WeightResponse) respValidate(int) []Issue { return nil }

// VolumeResponse measures total structural volume.
type VolumeResponse struct{}

func (VolumeResponse) ResponseType() string { return "VOLUME" }
func (VolumeResponse) respFields() (Field, Field, Field, []Field) {
	return Blank(), Blank(), Blank(), nil
}
func (VolumeResponse) respRefs() []Ref          { return noRefs }
func (VolumeResponse) respValidate(int) []Issue { return nil }

// StressResponse measures a stress item code on listed properties.
type StressResponse struct {
	PropType string // property card type the item code applies to
	ItemCode int
	PIDs     []int
}

func (StressResponse) ResponseType() string { return "STRESS" }

func (r StressResponse) respFields() (Field, Field, Field, []Field) {
	return StrField(r.PropType), IntField(r.ItemCode), Blank(), fieldsFromInts(r.PIDs)
}

func (r StressResponse) respRefs() []Ref {
	refs := make([]Ref, 0, len(r.PIDs))
	for _, pid := range r.PIDs {
		refs = append(refs, Ref{SpaceProperty, pid, "ATT"})
	}
	return refs
}

func (r StressResponse) respValidate(id int) []Issue {
	var issues []Issue
	switch r.PropType {
	case "PROD", "PBARL", "PSHELL":
	default:
		issues = append(issues, issuef("DRESP1", id, "PTYPE", "unsupported property type %q", r.PropType))
	}
	if r.ItemCode <= 0 {
		issues = append(issues, issuef("DRESP1", id, "ATTA", "stress item code must be positive"))
	}
	if len(r.PIDs) == 0 {
		issues = append(issues, issuef("DRESP1", id, "ATT1", "no properties listed"))
	}
	return issues
}

// DispResponse measures displacement components at listed nodes.
type DispResponse struct {
	Component int
	NIDs      []int
}

func (DispResponse) ResponseType() string { return "DISP" }

func (r DispResponse) respFields() (Field, Field, Field, []Field) {
	return Blank(), IntField(r.Component), Blank(), fieldsFromInts(r.NIDs)
}

func (r DispResponse) respRefs() []Ref {
	refs := make([]Ref, 0, len(r.NIDs))
	for _, nid := range r.NIDs {
		refs = append(refs, Ref{SpaceNode, nid, "ATT"})
	}
	return refs
}

func (r DispResponse) respValidate(id int) []Issue {
	var issues []Issue
	if !validComponents(strconv.Itoa(r.Component)) {
		issues = append(issues, issuef("DRESP1", id, "ATTA", "components must be unique digits 1-6"))
	}
	if len(r.NIDs) == 0 {
		issues = append(issues, issuef("DRESP1", id, "ATT1", "no nodes listed"))
	}
	return issues
}

// FrequencyResponse measures the natural frequency of one mode.
type FrequencyResponse struct {
	Mode int // 0 = lowest
}

func (FrequencyResponse) ResponseType() string { return "FREQ" }

func (r FrequencyResponse) respFields() (Field, Field, Field, []Field) {
	return Blank(), intOrBlank(r.Mode), Blank(), nil
}

func (FrequencyResponse) respRefs() []Ref { return noRefs }

func (r FrequencyResponse) respValidate(id int) []Issue {
	if r.Mode < 0 {
		return []Issue{issuef("DRESP1", id, "ATTA", "mode number must not be negative")}
	}
	return nil
}

// EigenvalueResponse measures one eigenvalue.
type EigenvalueResponse struct {
	Mode int
}

func (EigenvalueResponse) ResponseType() string { return "EIGN" }

func (r EigenvalueResponse) respFields() (Field, Field, Field, []Field) {
	return Blank(), intOrBlank(r.Mode), Blank(), nil
}

func (EigenvalueResponse) respRefs() []Ref { return noRefs }

func (r EigenvalueResponse) respValidate(id int) []Issue {
	if r.Mode < 0 {
		return []Issue{issuef("DRESP1", id, "ATTA", "mode number must not be negative")}
	}
	return nil
}

// DResp1 names a measured design response the optimizer can bound or
// minimize.
type DResp1 struct {
	baseCard
	id       int
	Label    string
	Region   int
	Response Response
}

// NewDResp1 builds a design response.
func NewDResp1(id int, label string, resp Response) *DResp1 {
	return &DResp1{id: id, Label: strings.ToUpper(label), Response: resp}
}

func (r *DResp1) Type() string { return "DRESP1" }
func (r *DResp1) ID() int      { return r.id }

func (r *DResp1) RawFields() []Field {
	ptype, atta, attb, atts := r.Response.respFields()
	fields := []Field{
		StrField("DRESP1"), IntField(r.id), StrField(r.Label),
		StrField(r.Response.ResponseType()), ptype, intOrBlank(r.Region), atta, attb,
	}
	return append(fields, atts...)
}

func (r *DResp1) References() []Ref {
	if r.Response == nil {
		return noRefs
	}
	return r.Response.respRefs()
}

func (r *DResp1) Validate() []Issue {
	// The schema pass renders the card, which needs a concrete response.
	if r.Response == nil {
		return append(validateLabel("DRESP1", r.id, r.Label), issuef("DRESP1", r.id, "RTYPE", "response required"))
	}
	issues := schemaIssues(r)
	issues = append(issues, validateLabel("DRESP1", r.id, r.Label)...)
	return append(issues, r.Response.respValidate(r.id)...)
}

// parseDResp1 dispatches on the response type. Each branch reads the
// attribute slots its variant carries and rejects the ones it does not,
// so nothing survives a round trip unmodeled.
func parseDResp1(c *CardRec) (Card, error) {
	r := &DResp1{id: c.Int(1), Label: c.Str(2), Region: c.Int(5)}
	rtype := c.Str(3)
	switch rtype {
	case "WEIGHT", "VOLUME":
		if !c.Blank(4) || !c.Blank(6) || !c.Blank(7) || len(c.Tail()) > 0 {
			return nil, c.Errf(3, "RTYPE", rtype+" takes no attributes")
		}
		if rtype == "WEIGHT" {
			r.Response = WeightResponse{}
		} else {
			r.Response = VolumeResponse{}
		}
	case "STRESS":
		if c.Blank(4) {
			return nil, c.Errf(4, "PTYPE", "required symbol is blank")
		}
		if c.Blank(6) {
			return nil, c.Errf(6, "ATTA", "required integer is blank")
		}
		if !c.Blank(7) {
			return nil, c.Errf(7, "ATTB", "not used with STRESS responses")
		}
		pids, err := c.IntList()
		if err != nil {
			return nil, err
		}
		r.Response = StressResponse{PropType: c.Str(4), ItemCode: c.Int(6), PIDs: pids}
	case "DISP":
		if !c.Blank(4) {
			return nil, c.Errf(4, "PTYPE", "not used with DISP responses")
		}
		if c.Blank(6) {
			return nil, c.Errf(6, "ATTA", "required integer is blank")
		}
		if !c.Blank(7) {
			return nil, c.Errf(7, "ATTB", "not used with DISP responses")
		}
		nids, err := c.IntList()
		if err != nil {
			return nil, err
		}
		r.Response = DispResponse{Component: c.Int(6), NIDs: nids}
	case "FREQ", "EIGN":
		if !c.Blank(4) {
			return nil, c.Errf(4, "PTYPE", "not used with "+rtype+" responses")
		}
		if !c.Blank(7) {
			return nil, c.Errf(7, "ATTB", "not used with "+rtype+" responses")
		}
		if len(c.Tail()) > 0 {
			return nil, c.Errf(c.TailStart(), "", "not used with "+rtype+" responses")
		}
		if rtype == "FREQ" {
			r.Response = FrequencyResponse{Mode: c.Int(6)}
		} else {
			r.Response = EigenvalueResponse{Mode: c.Int(6)}
		}
	default:
		return nil, c.Errf(3, "RTYPE", "unsupported response type "+rtype)
	}
	return r, nil
}

// DConstr bounds a design response. Several cards may share one
// constraint set id.
type DConstr struct {
	baseCard
	id     int
	RID    int     // bounded response
	LAllow float64 // lower allowable, default -1e20
	UAllow float64 // upper allowable, default 1e20
	LowFq  float64 // frequency band start, default 0
	HighFq float64 // frequency band end, default 1e20
}

// NewDConstr bounds response rid into [lower, upper].
func NewDConstr(id, rid int, lower, upper float64) *DConstr {
	return &DConstr{id: id, RID: rid, LAllow: lower, UAllow: upper, HighFq: unbounded}
}

func (c *DConstr) Type() string { return "DCONSTR" }
func (c *DConstr) ID() int      { return c.id }

func (c *DConstr) RawFields() []Field {
	lallow := Blank()
	if c.LAllow != -unbounded {
		lallow = FloatField(c.LAllow)
	}
	uallow := Blank()
	if c.UAllow != unbounded {
		uallow = FloatField(c.UAllow)
	}
	highfq := Blank()
	if c.HighFq != unbounded {
		highfq = FloatField(c.HighFq)
	}
	return []Field{
		StrField("DCONSTR"), IntField(c.id), IntField(c.RID),
		lallow, uallow, floatOrBlank(c.LowFq), highfq,
	}
}

func (c *DConstr) References() []Ref {
	return []Ref{{SpaceDResp, c.RID, "RID"}}
}

func (c *DConstr) Validate() []Issue {
	issues := schemaIssues(c)
	if c.LAllow > c.UAllow {
		issues = append(issues, issuef("DCONSTR", c.id, "UALLOW", "allowables are inverted (%g > %g)", c.LAllow, c.UAllow))
	}
	if c.LowFq > c.HighFq {
		issues = append(issues, issuef("DCONSTR", c.id, "HIGHFQ", "frequency band is inverted (%g > %g)", c.LowFq, c.HighFq))
	}
	return issues
}

func parseDConstr(c *CardRec) (Card, error) {
	return &DConstr{
		id: c.Int(1), RID: c.Int(2), LAllow: c.Float(3),
		UAllow: c.Float(4), LowFq: c.Float(5), HighFq: c.Float(6),
	}, nil
}

// DVPRel1 ties a property field to a linear combination of design
// variables: field = C0 + sum of COEFi * XDVIDi.
type DVPRel1 struct {
	baseCard
	id       int
	PropType string // property card type, e.g. PBARL
	PID      int
	PNameFID Field // property field, symbol name or numeric field id
	PMin     Field // lowest value the field may take, blank = open
	PMax     Field // highest value the field may take, blank = open
	C0       float64
	DVIDs    []int
	Coeffs   []float64
}

// NewDVPRel1 ties the named field of property pid to design
// variables. A dvid/coeff length mismatch is reported by Validate,
// not here.
func NewDVPRel1(id int, propType string, pid int, pname string, dvids []int, coeffs []float64) *DVPRel1 {
	d := make([]int, len(dvids))
	copy(d, dvids)
	c := make([]float64, len(coeffs))
	copy(c, coeffs)
	return &DVPRel1{
		id: id, PropType: strings.ToUpper(propType), PID: pid,
		PNameFID: StrField(strings.ToUpper(pname)), DVIDs: d, Coeffs: c,
	}
}

func (r *DVPRel1) Type() string { return "DVPREL1" }
func (r *DVPRel1) ID() int      { return r.id }

// Value computes the property field for the variable values x yields.
func (r *DVPRel1) Value(x func(dvid int) float64) float64 {
	v := r.C0
	n := len(r.DVIDs)
	if len(r.Coeffs) < n {
		n = len(r.Coeffs)
	}
	for i := 0; i < n; i++ {
		v += r.Coeffs[i] * x(r.DVIDs[i])
	}
	return v
}

func (r *DVPRel1) RawFields() []Field {
	fields := []Field{
		StrField("DVPREL1"), IntField(r.id), StrField(r.PropType), IntField(r.PID),
		r.PNameFID, r.PMin, r.PMax, floatOrBlank(r.C0), Blank(),
	}
	for i := range r.DVIDs {
		fields = append(fields, IntField(r.DVIDs[i]))
		if i < len(r.Coeffs) {
			fields = append(fields, FloatField(r.Coeffs[i]))
		} else {
			fields = append(fields, Blank())
		}
	}
	return fields
}

func (r *DVPRel1) References() []Ref {
	refs := []Ref{{SpaceProperty, r.PID, "PID"}}
	for _, dvid := range r.DVIDs {
		refs = append(refs, Ref{SpaceDesVar, dvid, "DVID"})
	}
	return refs
}

func (r *DVPRel1) Validate() []Issue {
	issues := schemaIssues(r)
	if len(r.DVIDs) != len(r.Coeffs) {
		issues = append(issues, issuef("DVPREL1", r.id, "DVID", "%d variables against %d coefficients", len(r.DVIDs), len(r.Coeffs)))
	}
	if len(r.DVIDs) == 0 {
		issues = append(issues, issuef("DVPREL1", r.id, "DVID", "relation has no terms"))
	}
	switch r.PNameFID.Kind() {
	case KindBlank:
		issues = append(issues, issuef("DVPREL1", r.id, "PNAME", "property field required"))
	case KindString:
		name, _ := r.PNameFID.AsString()
		if !validPropField(r.PropType, name) {
			issues = append(issues, warnf("DVPREL1", r.id, "PNAME", "field %q unknown for %s", name, r.PropType))
		}
	case KindInt:
		issues = append(issues, warnf("DVPREL1", r.id, "PNAME", "numeric field ids are not checked"))
	}
	lo, err1 := r.PMin.AsFloat()
	hi, err2 := r.PMax.AsFloat()
	if err1 == nil && err2 == nil && lo > hi {
		issues = append(issues, issuef("DVPREL1", r.id, "PMAX", "bounds are inverted (%g > %g)", lo, hi))
	}
	return issues
}

// validPropField reports whether a property card type has a field of
// this name that a relation can drive.
func validPropField(ptype, name string) bool {
	switch ptype {
	case "PROD":
		switch name {
		case "A", "J", "C", "NSM":
			return true
		}
	case "PSHELL":
		switch name {
		case "T", "NSM", "Z1", "Z2":
			return true
		}
	case "PBARL":
		if name == "NSM" {
			return true
		}
		if n, ok := strings.CutPrefix(name, "DIM"); ok {
			i, err := strconv.Atoi(n)
			return err == nil && i >= 1 && i <= 10
		}
	}
	return false
}

func parseDVPRel1(c *CardRec) (Card, error) {
	r := &DVPRel1{
		id: c.Int(1), PropType: c.Str(2), PID: c.Int(3),
		PNameFID: c.FieldAt(4), PMin: c.FieldAt(5), PMax: c.FieldAt(6), C0: c.Float(7),
	}
	if r.PNameFID.Kind() == KindFloat {
		return nil, c.Errf(4, "PNAME", "symbol or field id required, found real")
	}
	for j, f := range c.Tail() {
		if f.IsBlank() {
			continue
		}
		if j%2 == 0 {
			r.DVIDs = append(r.DVIDs, f.Int(0))
		} else {
			r.Coeffs = append(r.Coeffs, f.Float(0))
		}
	}
	return r, nil
}
