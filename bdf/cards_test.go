package bdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// readBulk parses bulk lines as a punch file.
func readBulk(t *testing.T, lines ...string) *Deck {
	t.Helper()
	d, err := ReadDeckOptions(strings.NewReader(strings.Join(lines, "\n")+"\n"), ReadOptions{Punch: true})
	require.NoError(t, err)
	return d
}

func hasIssue(issues []Issue, field string) bool {
	for _, i := range issues {
		if i.Field == field {
			return true
		}
	}
	return false
}

func severityOf(issues []Issue, field string) (Severity, bool) {
	for _, i := range issues {
		if i.Field == field {
			return i.Severity, true
		}
	}
	return 0, false
}

func TestParseGrid(t *testing.T) {
	d := readBulk(t, "GRID,7,,1.,2.,3.", "GRID,8,5,0.,0.,0.,6,123")
	g, ok := d.Grid(7)
	if !ok {
		t.Fatal("grid 7 missing")
	}
	if g.CP != 0 || g.X != [3]float64{1, 2, 3} {
		t.Errorf("grid 7 = CP %d X %v", g.CP, g.X)
	}
	g, ok = d.Grid(8)
	if !ok {
		t.Fatal("grid 8 missing")
	}
	if g.CP != 5 || g.CD != 6 || g.PS != "123" {
		t.Errorf("grid 8 = CP %d CD %d PS %q", g.CP, g.CD, g.PS)
	}
}

func TestCord2RAxes(t *testing.T) {
	c := NewCord2R(5, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, [3]float64{1, 0, 0})
	x, y, z, ok := c.Axes()
	if !ok {
		t.Fatal("axes not derivable")
	}
	require.InDelta(t, 1, x[0], 1e-12)
	require.InDelta(t, 1, y[1], 1e-12)
	require.InDelta(t, 1, z[2], 1e-12)

	// collinear points define no frame
	bad := NewCord2R(6, [3]float64{0, 0, 0}, [3]float64{0, 0, 1}, [3]float64{0, 0, 2})
	if _, _, _, ok := bad.Axes(); ok {
		t.Error("collinear points produced a frame")
	}
	if !hasIssue(bad.Validate(), "") {
		t.Error("collinear frame passed validation")
	}
}

func TestCBarOrientation(t *testing.T) {
	d := readBulk(t,
		"CBAR,11,39,1,2,0.,0.,1.",
		"CBAR,12,39,2,3,5",
	)
	vec := findCard(t, d, "CBAR", 11).(*CBar)
	if vec.G0 != 0 || vec.X != [3]float64{0, 0, 1} {
		t.Errorf("bar 11 = G0 %d X %v", vec.G0, vec.X)
	}
	g0 := findCard(t, d, "CBAR", 12).(*CBar)
	if g0.G0 != 5 || g0.X != [3]float64{} {
		t.Errorf("bar 12 = G0 %d X %v", g0.G0, g0.X)
	}
	// a bar with neither fails validation
	bare := &CBar{id: 13, PID: 39, GA: 1, GB: 2}
	if !hasIssue(bare.Validate(), "X1") {
		t.Error("unoriented bar passed validation")
	}
}

func TestCQuad4ThetaOrMcid(t *testing.T) {
	d := readBulk(t,
		"CQUAD4,21,40,1,2,3,4,45.",
		"CQUAD4,22,40,1,2,3,4,5",
		"CQUAD4,23,40,1,2,3,4",
	)
	angle := findCard(t, d, "CQUAD4", 21).(*CQuad4)
	if v, err := angle.ThetaMcid.AsFloat(); err != nil || v != 45 {
		t.Errorf("quad 21 theta = %v, %v", v, err)
	}
	frame := findCard(t, d, "CQUAD4", 22).(*CQuad4)
	if v, err := frame.ThetaMcid.AsInt(); err != nil || v != 5 {
		t.Errorf("quad 22 mcid = %v, %v", v, err)
	}
	blank := findCard(t, d, "CQUAD4", 23).(*CQuad4)
	if !blank.ThetaMcid.IsBlank() {
		t.Errorf("quad 23 theta = %v, want blank", blank.ThetaMcid)
	}
}

func TestConstructorGuards(t *testing.T) {
	var se *StructuralError
	if _, err := NewCRod(1, 2, []int{1, 2, 3}); !errors.As(err, &se) {
		t.Errorf("CROD with 3 nodes: %v", err)
	}
	if _, err := NewCBar(1, 2, []int{1}, [3]float64{0, 0, 1}); !errors.As(err, &se) {
		t.Errorf("CBAR with 1 node: %v", err)
	}
	if _, err := NewCQuad4(1, 2, []int{1, 2, 3}); !errors.As(err, &se) {
		t.Errorf("CQUAD4 with 3 nodes: %v", err)
	}
	if _, err := NewPBarL(1, 2, "OVAL", []float64{1}); !errors.As(err, &se) {
		t.Errorf("PBARL with unknown section: %v", err)
	}
	if _, err := NewPBarL(1, 2, "BOX", []float64{1, 2}); !errors.As(err, &se) {
		t.Errorf("PBARL BOX with 2 dims: %v", err)
	}
}

func TestParsePBarL(t *testing.T) {
	d := readBulk(t, "PBARL,39,5,,TUBE,,,,,0.05,0.04")
	p := findCard(t, d, "PBARL", 39).(*PBarL)
	if p.Group != "MSCBML0" || p.Section != "TUBE" {
		t.Errorf("group %q section %q", p.Group, p.Section)
	}
	require.InDeltaSlice(t, []float64{0.05, 0.04}, p.Dims, 1e-12)

	// unknown section or a missing dimension fails the parse
	var le *LineError
	_, err := ReadDeckOptions(strings.NewReader("PBARL,1,5,,OVAL,,,,,1.\n"), ReadOptions{Punch: true})
	if !errors.As(err, &le) {
		t.Errorf("unknown section: %v", err)
	}
	_, err = ReadDeckOptions(strings.NewReader("PBARL,1,5,,TUBE,,,,,1.\n"), ReadOptions{Punch: true})
	var fe *FieldError
	if !errors.As(err, &fe) {
		t.Errorf("missing DIM2: %v", err)
	}
}

func TestParsePShellDefaults(t *testing.T) {
	d := readBulk(t, "PSHELL,40,5,0.002,5")
	p := findCard(t, d, "PSHELL", 40).(*PShell)
	if p.TwelveIT3 != 1 {
		t.Errorf("12I/T**3 = %g, want 1", p.TwelveIT3)
	}
	require.InDelta(t, defaultTST, p.TST, 1e-12)
	if p.MID2 != 5 {
		t.Errorf("MID2 = %d, want 5", p.MID2)
	}
}

func TestMat1Completion(t *testing.T) {
	tests := []struct {
		name   string
		card   string
		wantE  float64
		wantG  float64
		wantNu float64
	}{
		{"e and nu", "MAT1,5,210000.,,0.3", 210000, 80769.23, 0.3},
		{"g and nu", "MAT1,5,,80769.23,0.3", 210000, 80769.23, 0.3},
		{"e and g", "MAT1,5,210000.,80769.23", 210000, 80769.23, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := readBulk(t, tt.card)
			m, ok := d.Material(5)
			if !ok {
				t.Fatal("material missing")
			}
			e, okE := m.YoungsModulus()
			g, okG := m.ShearModulus()
			nu, okNu := m.PoissonRatio()
			if !okE || !okG || !okNu {
				t.Fatalf("constants underivable: E %v G %v NU %v", okE, okG, okNu)
			}
			require.InDelta(t, tt.wantE, e, 1)
			require.InDelta(t, tt.wantG, g, 1)
			require.InDelta(t, tt.wantNu, nu, 1e-3)
		})
	}
}

func TestMat1Underdefined(t *testing.T) {
	d := readBulk(t, "MAT1,5,210000.")
	m, _ := d.Material(5)
	if _, ok := m.ShearModulus(); ok {
		t.Error("G derived from E alone")
	}
	if !hasIssue(m.Validate(), "E") {
		t.Error("lone E passed validation")
	}
}

func TestMat1InconsistentTriple(t *testing.T) {
	// E far from 2(1+NU)G warns but does not reject
	d := readBulk(t, "MAT1,5,210000.,50000.,0.3")
	m, _ := d.Material(5)
	sev, found := severityOf(m.Validate(), "G")
	if !found {
		t.Fatal("inconsistent constants passed validation")
	}
	if sev != SeverityWarning {
		t.Errorf("severity = %v, want warning", sev)
	}
}

func TestParseSPC1Thru(t *testing.T) {
	d := readBulk(t, "SPC1,10,123456,1,THRU,5,9")
	c := findCard(t, d, "SPC1", 10).(*SPC1)
	if c.C != "123456" {
		t.Errorf("C = %q", c.C)
	}
	want := []int{1, 2, 3, 4, 5, 9}
	require.Equal(t, want, c.Nodes)

	for _, bad := range []string{
		"SPC1,10,123,THRU,5",
		"SPC1,10,123,9,THRU,5",
	} {
		if _, err := ReadDeckOptions(strings.NewReader(bad+"\n"), ReadOptions{Punch: true}); err == nil {
			t.Errorf("%q accepted", bad)
		}
	}
}

func TestParseLoadCombination(t *testing.T) {
	d := readBulk(t, "LOAD,20,1.5,2.,10,1.,30")
	l := findCard(t, d, "LOAD", 20).(*Load)
	if l.Scale != 1.5 {
		t.Errorf("S = %g", l.Scale)
	}
	want := []LoadFactor{{2, 10}, {1, 30}}
	require.Equal(t, want, l.Factors)

	// a trailing scale with no set id is structural
	_, err := ReadDeckOptions(strings.NewReader("LOAD,20,1.,2.\n"), ReadOptions{Punch: true})
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Errorf("dangling factor: %v", err)
	}

	self := NewLoad(20, 1, []LoadFactor{{1, 20}})
	if !hasIssue(self.Validate(), "L") {
		t.Error("self-referencing combination passed validation")
	}
}

func TestParseParam(t *testing.T) {
	d := readBulk(t, "PARAM,POST,-1", "PARAM,WTMASS,0.00259", "PARAM,AUTOSPC,YES")
	p, ok := d.Param("POST")
	if !ok {
		t.Fatal("POST missing")
	}
	if v, err := p.Value.AsInt(); err != nil || v != -1 {
		t.Errorf("POST = %v, %v", v, err)
	}
	p, _ = d.Param("WTMASS")
	if v, err := p.Value.AsFloat(); err != nil || v != 0.00259 {
		t.Errorf("WTMASS = %v, %v", v, err)
	}
	p, _ = d.Param("AUTOSPC")
	if v, err := p.Value.AsString(); err != nil || v != "YES" {
		t.Errorf("AUTOSPC = %v, %v", v, err)
	}

	// a known parameter holding the wrong kind warns
	odd := NewParam("POST", StrField("YES"))
	sev, found := severityOf(odd.Validate(), "V1")
	if !found || sev != SeverityWarning {
		t.Errorf("kind mismatch: found %v severity %v", found, sev)
	}
}

func TestParseEigrl(t *testing.T) {
	d := readBulk(t, "EIGRL,30,0.,500.,6")
	e := findCard(t, d, "EIGRL", 30).(*Eigrl)
	if v, _ := e.V1.AsFloat(); v != 0 {
		t.Errorf("V1 = %v", e.V1)
	}
	if v, _ := e.V2.AsFloat(); v != 500 {
		t.Errorf("V2 = %v", e.V2)
	}
	if e.ND != 6 {
		t.Errorf("ND = %d", e.ND)
	}

	inv := &Eigrl{id: 30, V1: FloatField(500), V2: FloatField(10)}
	if !hasIssue(inv.Validate(), "V2") {
		t.Error("inverted range passed validation")
	}
}

func TestParseDesVar(t *testing.T) {
	d := readBulk(t, "DESVAR,101,THICK,0.05,0.01,0.2")
	v := findCard(t, d, "DESVAR", 101).(*DesVar)
	if v.Label != "THICK" || v.XInit != 0.05 || v.XLB != 0.01 || v.XUB != 0.2 {
		t.Errorf("desvar = %+v", v)
	}
	if got := v.Clamp(0.5); got != 0.2 {
		t.Errorf("Clamp(0.5) = %g", got)
	}
	if got := v.Clamp(0.001); got != 0.01 {
		t.Errorf("Clamp(0.001) = %g", got)
	}

	// bounds left blank stay open
	d = readBulk(t, "DESVAR,102,AREA,1.0")
	v = findCard(t, d, "DESVAR", 102).(*DesVar)
	if v.XLB != -1e20 || v.XUB != 1e20 {
		t.Errorf("open bounds = [%g, %g]", v.XLB, v.XUB)
	}

	out := NewDesVar(103, "BAD", 5)
	out.XLB, out.XUB = 0, 1
	if !hasIssue(out.Validate(), "XINIT") {
		t.Error("initial value outside bounds passed validation")
	}
}

func TestParseDResp1(t *testing.T) {
	d := readBulk(t,
		"DRESP1,301,WGT,WEIGHT",
		"DRESP1,302,STR,STRESS,PBARL,,7,,39,44",
		"DRESP1,303,TIP,DISP,,,3,,2",
	)
	w := findCard(t, d, "DRESP1", 301).(*DResp1)
	if w.Response.ResponseType() != "WEIGHT" {
		t.Errorf("301 = %s", w.Response.ResponseType())
	}
	s := findCard(t, d, "DRESP1", 302).(*DResp1)
	stress, ok := s.Response.(StressResponse)
	if !ok {
		t.Fatalf("302 = %T", s.Response)
	}
	if stress.PropType != "PBARL" || stress.ItemCode != 7 {
		t.Errorf("302 = %+v", stress)
	}
	require.Equal(t, []int{39, 44}, stress.PIDs)
	disp := findCard(t, d, "DRESP1", 303).(*DResp1).Response.(DispResponse)
	if disp.Component != 3 {
		t.Errorf("303 component = %d", disp.Component)
	}
	require.Equal(t, []int{2}, disp.NIDs)

	// WEIGHT takes no attributes
	if _, err := ReadDeckOptions(strings.NewReader("DRESP1,304,W,WEIGHT,,,7\n"), ReadOptions{Punch: true}); err == nil {
		t.Error("WEIGHT with attributes accepted")
	}
}

func TestDResp1AttributeSlots(t *testing.T) {
	// slots a response type does not model are refused, not dropped
	cases := []struct {
		deck  string
		field string
	}{
		{"DRESP1,304,W,WEIGHT,,,,5", "RTYPE"},
		{"DRESP1,302,STR,STRESS,PBARL,,7,3,39", "ATTB"},
		{"DRESP1,303,TIP,DISP,PROD,,3,,2", "PTYPE"},
		{"DRESP1,305,M1,EIGN,,,1,4.", "ATTB"},
		{"DRESP1,306,F1,FREQ,,,1,,99", "ATT"},
	}
	for _, tc := range cases {
		_, err := ReadDeckOptions(strings.NewReader(tc.deck+"\n"), ReadOptions{Punch: true})
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Errorf("%s: err = %v, want FieldError", tc.deck, err)
			continue
		}
		if fe.Field != tc.field {
			t.Errorf("%s: refused at %q, want %q", tc.deck, fe.Field, tc.field)
		}
	}
}

func TestParseDVPRel1(t *testing.T) {
	d := readBulk(t, "DVPREL1,501,PBARL,39,DIM1,0.01,0.5,,,101,0.6,102,0.4")
	r := findCard(t, d, "DVPREL1", 501).(*DVPRel1)
	if r.PropType != "PBARL" || r.PID != 39 {
		t.Errorf("rel = %s %d", r.PropType, r.PID)
	}
	if name, _ := r.PNameFID.AsString(); name != "DIM1" {
		t.Errorf("PNAME = %v", r.PNameFID)
	}
	require.Equal(t, []int{101, 102}, r.DVIDs)
	require.InDeltaSlice(t, []float64{0.6, 0.4}, r.Coeffs, 1e-12)
	if lo, _ := r.PMin.AsFloat(); lo != 0.01 {
		t.Errorf("PMIN = %v", r.PMin)
	}

	got := r.Value(func(dvid int) float64 {
		return map[int]float64{101: 1, 102: 2}[dvid]
	})
	require.InDelta(t, 0.6+0.8, got, 1e-12)

	// term count mismatch is a validation error, not a parse error
	r2 := NewDVPRel1(502, "PROD", 7, "A", []int{101, 102}, []float64{1})
	if !hasIssue(r2.Validate(), "DVID") {
		t.Error("mismatched terms passed validation")
	}
}

func TestCBarPinFlags(t *testing.T) {
	bar, err := NewCBar(2, 39, []int{7, 3}, [3]float64{0.6, 18, 26})
	require.NoError(t, err)
	bar.PA = "513"
	if hasIssue(bar.Validate(), "PA") {
		t.Error("valid pin flags rejected")
	}
	bar.PA = "7"
	if !hasIssue(bar.Validate(), "PA") {
		t.Error("digit 7 accepted as a pin flag")
	}
	bar.PA = "11"
	if !hasIssue(bar.Validate(), "PA") {
		t.Error("repeated digit accepted as a pin flag")
	}
}
