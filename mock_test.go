// DO NOT EDIT
// Code generated automatically by github.com/efritz/go-mockgen
// $ go-mockgen github.com/ferrohq/rdx -o mock_test.go -i Executor

package rdx

type MockExecutor struct {
	DoFunc           func(string, ...interface{}) (*Reply, error)
	DoFuncCallCount  int
	DoFuncCallParams []ExecutorDoParamSet
}

type ExecutorDoParamSet struct {
	Arg0 string
	Arg1 []interface{}
}

var _ Executor = NewMockExecutor()

func NewMockExecutor() *MockExecutor {
	m := &MockExecutor{}
	m.DoFunc = m.defaultDoFunc
	return m
}

func (m *MockExecutor) Do(v0 string, v1 ...interface{}) (*Reply, error) {
	m.DoFuncCallCount++
	m.DoFuncCallParams = append(m.DoFuncCallParams, ExecutorDoParamSet{v0, v1})
	return m.DoFunc(v0, v1...)
}

func (m *MockExecutor) defaultDoFunc(v0 string, v1 ...interface{}) (*Reply, error) {
	return nil, nil
}
