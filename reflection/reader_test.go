package reflection_test

import (
	"reflect"
	"testing"

	"github.com/gocrud/injector/reflection"
)

type database struct{}
type cache struct{}

func newService(db *database, c *cache) string { return "svc" }
func newLeafService(db *database) string       { return "leaf" }

func TestParametersFromSignature(t *testing.T) {
	reader := reflection.NewTypeReader(nil)

	params, err := reader.Parameters(newService)
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}

	if len(params) != 2 {
		t.Fatalf("expected 2 parameters, got %d", len(params))
	}
	if params[0].Type != reflect.TypeOf((*database)(nil)) {
		t.Errorf("parameter 0: got %v", params[0].Type)
	}
	if params[1].Type != reflect.TypeOf((*cache)(nil)) {
		t.Errorf("parameter 1: got %v", params[1].Type)
	}
	if params[0].Annotations != nil {
		t.Errorf("signature-only read must carry no annotations")
	}
}

func TestParametersRejectsNonFunction(t *testing.T) {
	reader := reflection.NewTypeReader(nil)

	if _, err := reader.Parameters("not a func"); err == nil {
		t.Errorf("non-function must be rejected")
	}
	if _, err := reader.Parameters(nil); err == nil {
		t.Errorf("nil must be rejected")
	}
}

func TestRegisteredAnnotations(t *testing.T) {
	registry := reflection.NewRegistry()
	reader := reflection.NewTypeReader(registry)

	token := "cache-token"
	registry.Register(newService, &reflection.Descriptor{
		Params: []reflection.Parameter{
			{},
			{Annotations: []any{reflection.Optional{}, reflection.Inject{Token: token}}},
		},
	})

	params, err := reader.Parameters(newService)
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}

	// 未注解的参数仍从签名取类型
	if params[0].Type != reflect.TypeOf((*database)(nil)) || params[0].Annotations != nil {
		t.Errorf("parameter 0 must stay signature-derived: %+v", params[0])
	}
	if len(params[1].Annotations) != 2 {
		t.Errorf("parameter 1 must carry the registered annotations: %+v", params[1])
	}
}

func TestDescriptorParentInheritance(t *testing.T) {
	registry := reflection.NewRegistry()
	reader := reflection.NewTypeReader(registry)

	// 父 Descriptor 声明了参数元数据，子 Descriptor 自己没有：
	// 沿父链继承，直到找到有元数据的一层
	base := &reflection.Descriptor{
		Params: []reflection.Parameter{
			{Annotations: []any{reflection.Optional{}}},
		},
	}
	registry.Register(newLeafService, &reflection.Descriptor{
		Parent: &reflection.Descriptor{Parent: base},
	})

	params, err := reader.Parameters(newLeafService)
	if err != nil {
		t.Fatalf("Parameters failed: %v", err)
	}
	if len(params) != 1 || len(params[0].Annotations) != 1 {
		t.Fatalf("metadata must be inherited through the parent chain: %+v", params)
	}
	if _, ok := params[0].Annotations[0].(reflection.Optional); !ok {
		t.Errorf("expected the inherited Optional annotation")
	}
}

func TestDescriptorTooManyParams(t *testing.T) {
	registry := reflection.NewRegistry()
	reader := reflection.NewTypeReader(registry)

	registry.Register(newLeafService, &reflection.Descriptor{
		Params: make([]reflection.Parameter, 3),
	})

	if _, err := reader.Parameters(newLeafService); err == nil {
		t.Errorf("descriptor with more params than the constructor takes must fail")
	}
}

func TestLookupUnregistered(t *testing.T) {
	registry := reflection.NewRegistry()
	if registry.Lookup(newService) != nil {
		t.Errorf("unregistered constructor must yield nil descriptor")
	}
}
