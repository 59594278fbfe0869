package tabular

// Kind classifies a Dataset by its column-name signature.
type Kind string

const (
	KindTask    Kind = "tarefas"
	KindProject Kind = "projetos"
	KindPerson  Kind = "funcionarios"
	KindUnknown Kind = "desconhecido"
)

// signature is the minimal required column set identifying a record kind.
// Each required entry lists the acceptable names for that column.
type signature struct {
	kind     Kind
	required [][]string
}

// signatures are tested in declaration order; the first kind whose required
// columns are all present wins. A dataset satisfying two signatures is
// classified by this priority without a conflict error.
var signatures = []signature{
	{
		kind: KindTask,
		required: [][]string{
			{"nome da tarefa", "tarefa"},
			{"nome do projeto", "projeto"},
			{"email responsável", "responsável", "email"},
			{"data de fim", "prazo", "data de início"},
		},
	},
	{
		kind: KindProject,
		required: [][]string{
			{"nome do projeto", "projeto"},
			{"prazo", "data de fim"},
		},
	},
	{
		kind: KindPerson,
		required: [][]string{
			{"nome"},
			{"sobrenome"},
			{"email", "e-mail"},
		},
	},
}

// Route determines the record kind of a dataset by signature match.
func Route(d *Dataset) Kind {
	cols := make(map[string]bool, len(d.Columns))
	for _, c := range d.Columns {
		cols[c] = true
	}

	for _, sig := range signatures {
		if matchesSignature(cols, sig) {
			return sig.kind
		}
	}
	return KindUnknown
}

func matchesSignature(cols map[string]bool, sig signature) bool {
	for _, alternatives := range sig.required {
		found := false
		for _, name := range alternatives {
			if cols[name] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
