package codegen

import (
	"fmt"
	"strings"

	"github.com/starford/typegen/internal/abi"
)

type memberView struct {
	Key             string
	Selector        string
	Params          string
	EncodeValues    string
	Overrides       string
	Result          string
	FunctionsResult string
	StaticResult    string
	Doc             []string
}

type eventView struct {
	TypeName  string
	Signature string
	Selector  string
	Fields    []fieldView
	Tuple     string
}

type fieldView struct {
	Name string
	Type string
}

type filterView struct {
	Key      string
	Params   string
	TypeName string
}

type typingsView struct {
	Name      string
	Doc       []string
	Functions []memberView
	Selectors string
	Events    []eventView
	Filters   []filterView
}

func newTypingsView(c *abi.Contract, opts Options) typingsView {
	v := typingsView{Name: c.Name, Doc: contractDoc(c.Documentation)}

	var selectors []string
	for _, g := range c.Functions {
		overloaded := len(g.Overloads) > 1
		if !overloaded {
			m := newMemberView(g.Overloads[0], g.Name)
			v.Functions = append(v.Functions, m)
			selectors = append(selectors, quote(g.Name))
		}
		if overloaded || opts.AlwaysGenerateOverloads {
			for _, fn := range g.Overloads {
				m := newMemberView(fn, fn.Signature())
				v.Functions = append(v.Functions, m)
				selectors = append(selectors, quote(fn.Signature()))
			}
		}
	}
	v.Selectors = strings.Join(selectors, " | ")
	if v.Selectors == "" {
		v.Selectors = "never"
	}

	for _, g := range c.Events {
		overloaded := len(g.Overloads) > 1
		for _, ev := range g.Overloads {
			typeName := ev.Name + "Event"
			selector := ev.Name
			if overloaded {
				typeName = ev.Name + "_" + identSuffix(ev.Inputs) + "_Event"
				selector = ev.Signature()
			}
			view := newEventView(ev, typeName, selector)
			v.Events = append(v.Events, view)

			params := filterParams(ev.Inputs)
			v.Filters = append(v.Filters, filterView{Key: quote(ev.Signature()), Params: params, TypeName: typeName})
			if !overloaded {
				v.Filters = append(v.Filters, filterView{Key: ev.Name, Params: params, TypeName: typeName})
			}
		}
	}
	return v
}

func newMemberView(fn abi.Function, key string) memberView {
	m := memberView{
		Key:      key,
		Selector: key,
		Params:   inputParams(fn.Inputs),
		Doc:      memberDoc(fn.Doc),
	}
	if strings.Contains(key, "(") {
		m.Key = quote(key)
	}

	if len(fn.Inputs) == 0 {
		m.EncodeValues = "values?: undefined"
	} else {
		types := make([]string, len(fn.Inputs))
		for i, p := range fn.Inputs {
			types[i] = inputType(p.Type)
		}
		m.EncodeValues = "values: [" + strings.Join(types, ", ") + "]"
	}

	switch {
	case fn.IsConstant():
		m.Overrides = "overrides?: CallOverrides"
	case fn.IsPayable():
		m.Overrides = "overrides?: PayableOverrides & { from?: string }"
	default:
		m.Overrides = "overrides?: Overrides & { from?: string }"
	}

	m.StaticResult = "Promise<" + callResult(fn.Outputs) + ">"
	m.FunctionsResult = "Promise<" + outputTuple(fn.Outputs) + ">"
	if fn.IsConstant() {
		m.Result = m.StaticResult
	} else {
		m.Result = "Promise<ContractTransaction>"
		m.FunctionsResult = m.Result
	}
	return m
}

// callResult unwraps single outputs the way ethers does for direct calls.
func callResult(outputs []abi.Param) string {
	switch len(outputs) {
	case 0:
		return "void"
	case 1:
		return outputType(outputs[0].Type)
	}
	return outputTuple(outputs)
}

func newEventView(ev abi.Event, typeName, selector string) eventView {
	view := eventView{TypeName: typeName, Signature: ev.Signature(), Selector: selector}
	types := make([]string, len(ev.Inputs))
	for i, p := range ev.Inputs {
		t := outputType(p.Type)
		types[i] = t
		view.Fields = append(view.Fields, fieldView{Name: paramName(p, i), Type: t})
	}
	view.Tuple = strings.Join(types, ", ")
	return view
}

func inputParams(params []abi.Param) string {
	var b strings.Builder
	for i, p := range params {
		fmt.Fprintf(&b, "%s: %s, ", paramName(p, i), inputType(p.Type))
	}
	return b.String()
}

func filterParams(params []abi.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Indexed {
			parts[i] = fmt.Sprintf("%s?: %s | null", paramName(p, i), inputType(p.Type))
		} else {
			parts[i] = paramName(p, i) + "?: null"
		}
	}
	return strings.Join(parts, ", ")
}

func contractDoc(d *abi.Documentation) []string {
	if d == nil {
		return nil
	}
	var lines []string
	if d.Title != "" {
		lines = append(lines, "@title "+d.Title)
	}
	if d.Notice != "" {
		lines = append(lines, "@notice "+d.Notice)
	}
	if d.Details != "" {
		lines = append(lines, "@dev "+d.Details)
	}
	if d.Author != "" {
		lines = append(lines, "@author "+d.Author)
	}
	return lines
}

func memberDoc(d *abi.MemberDoc) []string {
	if d == nil {
		return nil
	}
	var lines []string
	if d.Notice != "" {
		lines = append(lines, d.Notice)
	}
	if d.Details != "" {
		lines = append(lines, d.Details)
	}
	return lines
}

// jsdoc renders lines as a JSDoc block indented by indent spaces.
func jsdoc(lines []string, indent int) string {
	if len(lines) == 0 {
		return ""
	}
	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	b.WriteString(pad + "/**\n")
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			b.WriteString(pad + " * " + strings.ReplaceAll(part, "*/", "*\\/") + "\n")
		}
	}
	b.WriteString(pad + " */\n")
	return b.String()
}

func quote(s string) string {
	return `"` + s + `"`
}
