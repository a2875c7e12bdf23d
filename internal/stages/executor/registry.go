package executor

import (
	"sync"
	"time"

	"github.com/mini-maxit/grader/internal/remote"
	"github.com/mini-maxit/grader/internal/stages/simulator"
	"github.com/mini-maxit/grader/internal/storage"
	"github.com/mini-maxit/grader/pkg/languages"
)

// Registry selects the executor variant for a language.
type Registry interface {
	Get(lt languages.LanguageType) Executor
	Register(lt languages.LanguageType, exec Executor)
	// Versions reports the remote runtime version configured per language.
	Versions() map[languages.LanguageType]string
}

type registry struct {
	mu        sync.RWMutex
	executors map[languages.LanguageType]Executor
	versions  map[languages.LanguageType]string
	fallback  Executor
}

func NewRegistry(executors map[languages.LanguageType]Executor) Registry {
	r := &registry{
		executors: make(map[languages.LanguageType]Executor, len(executors)),
		versions:  map[languages.LanguageType]string{},
		fallback:  NewUnsupportedExecutor(),
	}
	for lt, exec := range executors {
		r.executors[lt] = exec
	}
	return r
}

func (r *registry) Get(lt languages.LanguageType) Executor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if exec, ok := r.executors[lt]; ok {
		return exec
	}
	return r.fallback
}

func (r *registry) Register(lt languages.LanguageType, exec Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[lt] = exec
}

func (r *registry) Versions() map[languages.LanguageType]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[languages.LanguageType]string, len(r.versions))
	for lt, v := range r.versions {
		out[lt] = v
	}
	return out
}

type Config struct {
	PythonRunner  remote.Runner
	PythonVersion string
	JavaRunner    remote.Runner
	JavaVersion   string
	JSTimeout     time.Duration
	Cache         storage.ExecutionCache
}

// NewDefaultRegistry wires every supported language. Nil runners leave the
// language on its simulator.
func NewDefaultRegistry(cfg Config) Registry {
	r := NewRegistry(map[languages.LanguageType]Executor{
		languages.Python: NewRemoteExecutor(
			languages.Python, cfg.PythonVersion, cfg.PythonRunner, simulator.NewPythonSimulator(), cfg.Cache,
		),
		languages.Java: NewRemoteExecutor(
			languages.Java, cfg.JavaVersion, cfg.JavaRunner, simulator.NewJavaSimulator(), cfg.Cache,
		),
		languages.JavaScript: NewJavaScriptExecutor(cfg.JSTimeout),
		languages.CPP:        NewCPPExecutor(),
	}).(*registry)
	r.versions[languages.Python] = cfg.PythonVersion
	r.versions[languages.Java] = cfg.JavaVersion
	return r
}
