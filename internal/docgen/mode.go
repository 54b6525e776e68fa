package docgen

import (
	"fmt"
	"strings"
)

// Mode selects which subject a document is generated for.
type Mode string

const (
	ModeStudent      Mode = "student"
	ModeCollaborator Mode = "collaborator"
	ModeInstitution  Mode = "institution"
)

// CommitKind tells what the terminal action of a mode does with the artifact.
type CommitKind string

const (
	CommitDownload    CommitKind = "download"
	CommitPersist     CommitKind = "persist"
	CommitUnsupported CommitKind = "unsupported"
)

// Capabilities is the static behaviour row of a mode.
type Capabilities struct {
	Preview      bool
	Commit       CommitKind
	CommitLabel  string
	HeaderFooter bool
}

var capabilities = map[Mode]Capabilities{
	ModeStudent: {
		Preview:      true,
		Commit:       CommitDownload,
		CommitLabel:  "Gerar e Baixar PDF",
		HeaderFooter: true,
	},
	ModeCollaborator: {
		Preview:      false,
		Commit:       CommitUnsupported,
		CommitLabel:  "Gerar e Baixar PDF",
		HeaderFooter: true,
	},
	ModeInstitution: {
		Preview:      true,
		Commit:       CommitPersist,
		CommitLabel:  "Gerar e Salvar",
		HeaderFooter: false,
	},
}

var modeAliases = map[string]Mode{
	"student":      ModeStudent,
	"aluno":        ModeStudent,
	"collaborator": ModeCollaborator,
	"colaborador":  ModeCollaborator,
	"institution":  ModeInstitution,
	"instituicao":  ModeInstitution,
}

// ParseMode accepts both the English names and the wire names used by the
// admin front-end.
func ParseMode(s string) (Mode, error) {
	if m, ok := modeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("unknown document mode %q", s)
}

func (m Mode) Valid() bool {
	_, ok := capabilities[m]
	return ok
}

func (m Mode) Capabilities() Capabilities {
	return capabilities[m]
}

func (m Mode) String() string {
	return string(m)
}
