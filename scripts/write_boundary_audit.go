// Command write_boundary_audit scans internal/services and reports every
// place a service writes a compliance repo directly instead of going through
// an aggregate. With -strict it exits non-zero when such a write exists.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type repoField struct {
	Name     string `json:"name"`
	RepoType string `json:"repoType"`
	Area     string `json:"area"`
	Guarded  bool   `json:"guarded"`
}

type methodStats struct {
	Struct              string   `json:"struct"`
	Method              string   `json:"method"`
	File                string   `json:"file"`
	Line                int      `json:"line"`
	DirectWrites        int      `json:"directWrites"`
	DirectWriteFields   []string `json:"directWriteFields,omitempty"`
	AggregateCalls      int      `json:"aggregateCalls"`
	AggregateOperations []string `json:"aggregateOperations,omitempty"`
}

type auditReport struct {
	DirectWriteCallsites int           `json:"directWriteCallsites"`
	AggregateCallsites   int           `json:"aggregateCallsites"`
	Violations           []methodStats `json:"violations"`
	AggregateOwned       []methodStats `json:"aggregateOwned"`
	GuardedRepoFields    []repoField   `json:"guardedRepoFields"`
	Methods              []methodStats `json:"methods"`
}

type structFields struct {
	Repos      map[string]repoField
	Aggregates map[string]string
}

// Mutating repo methods. Reads never count against a service.
var repoWriteMethods = map[string]bool{
	"Append":           true,
	"Create":           true,
	"CreateIfAbsent":   true,
	"CreateMissing":    true,
	"DeleteByContract": true,
	"LockByFilter":     true,
	"LockByID":         true,
	"LockSignable":     true,
	"SignByIDs":        true,
	"UpdateFields":     true,
}

var aggregateOperations = map[string]bool{
	"InitializeJourney": true,
	"LockTSF":           true,
	"SetTeachingSite":   true,
	"SyncMilestones":    true,
	"CompleteMilestone": true,
	"SignBatch":         true,
}

func main() {
	strict := flag.Bool("strict", false, "exit 1 when a service writes a guarded repo directly")
	flag.Parse()
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	dir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, func(fi os.FileInfo) bool {
		return strings.HasSuffix(fi.Name(), ".go") && !strings.HasSuffix(fi.Name(), "_test.go")
	}, 0)
	if err != nil {
		exitf("parse %s: %v", dir, err)
	}
	pkg, ok := pkgs["services"]
	if !ok {
		exitf("services package not found in %s", dir)
	}

	fields := map[string]structFields{}
	for _, f := range pkg.Files {
		collectStructFields(f, fields)
	}
	var methods []methodStats
	for path, f := range pkg.Files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		collectMethodStats(fset, f, rel, fields, &methods)
	}

	report := buildReport(fields, methods)
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))
	if *strict && report.DirectWriteCallsites > 0 {
		os.Exit(1)
	}
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{Repos: map[string]repoField{}, Aggregates: map[string]string{}}
			for _, field := range st.Fields.List {
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok || len(field.Names) == 0 {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				name := field.Names[0].Name
				typeName := sel.Sel.Name
				switch {
				case pkgIdent.Name == "repos" && strings.HasSuffix(typeName, "Repo"):
					area, guarded := classifyRepo(typeName)
					sf.Repos[name] = repoField{Name: name, RepoType: typeName, Area: area, Guarded: guarded}
				case pkgIdent.Name == "domainagg" && strings.HasSuffix(typeName, "Aggregate"):
					sf.Aggregates[name] = typeName
				}
			}
			if len(sf.Repos) > 0 || len(sf.Aggregates) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func collectMethodStats(fset *token.FileSet, file *ast.File, rel string, fields map[string]structFields, out *[]methodStats) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		sf, ok := fields[recvType]
		if !ok || recvName == "" {
			continue
		}

		m := methodStats{
			Struct: recvType,
			Method: fd.Name.Name,
			File:   filepath.ToSlash(rel),
			Line:   fset.Position(fd.Pos()).Line,
		}
		written := map[string]bool{}
		ops := map[string]bool{}
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fn, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			target, ok := fn.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			base, ok := target.X.(*ast.Ident)
			if !ok || base.Name != recvName {
				return true
			}
			field, method := target.Sel.Name, fn.Sel.Name
			if rf, ok := sf.Repos[field]; ok && rf.Guarded && repoWriteMethods[method] {
				m.DirectWrites++
				written[field+"."+method] = true
			}
			if _, ok := sf.Aggregates[field]; ok && aggregateOperations[method] {
				m.AggregateCalls++
				ops[method] = true
			}
			return true
		})
		m.DirectWriteFields = sortedKeys(written)
		m.AggregateOperations = sortedKeys(ops)
		*out = append(*out, m)
	}
}

func buildReport(fields map[string]structFields, methods []methodStats) auditReport {
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].File == methods[j].File {
			return methods[i].Line < methods[j].Line
		}
		return methods[i].File < methods[j].File
	})

	report := auditReport{Methods: methods}
	for _, m := range methods {
		if m.DirectWrites > 0 {
			report.DirectWriteCallsites += m.DirectWrites
			report.Violations = append(report.Violations, m)
		}
		if m.AggregateCalls > 0 {
			report.AggregateCallsites += m.AggregateCalls
			report.AggregateOwned = append(report.AggregateOwned, m)
		}
	}

	keys := []string{}
	byKey := map[string]repoField{}
	for structName, sf := range fields {
		for _, rf := range sf.Repos {
			if rf.Guarded {
				k := structName + "." + rf.Name
				keys = append(keys, k)
				byKey[k] = rf
			}
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.GuardedRepoFields = append(report.GuardedRepoFields, byKey[k])
	}
	return report
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	name := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return name, id.Name
		}
	case *ast.Ident:
		return name, t.Name
	}
	return "", ""
}

// classifyRepo reports the repo's area and whether writes to it are owned by
// an aggregate. Notifications are written by the sweep itself.
func classifyRepo(repoType string) (string, bool) {
	switch repoType {
	case "ContractRepo", "PeriodRepo", "PlanMappingRepo":
		return "Plan", true
	case "MilestoneRepo":
		return "Milestones", true
	case "EvaluationRepo", "SnapshotRepo":
		return "Signing", true
	case "AuditRepo":
		return "Audit", true
	case "NotificationRepo":
		return "Notifications", false
	default:
		return "Read", false
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
