package classify

import "github.com/hxcode/nativeos/pkg/registry"

// Keyword sets referenced by the default rule list. Several sets overlap
// ("provision" appears in both the terraform conjunction and the generic
// infra set), which is why rule order is load-bearing.
var (
	iacKeywords   = []string{"terraform", "provision", "provisioning", "infrastructure", "iac"}
	cloudKeywords = []string{"aws", "azure", "gcp", "cloud"}

	configKeywords = []string{"ansible", "configure", "configuration", "playbook"}
	hostKeywords   = []string{"server", "servers", "host", "hosts", "machine", "machines"}

	k8sKeywords    = []string{"kubernetes", "k8s", "kubectl", "helm", "pod", "pods"}
	dockerKeywords = []string{"docker", "dockerfile", "container", "containers", "compose"}
	infraKeywords  = []string{"infra", "infrastructure", "deploy", "deployment", "provision", "terraform", "ansible", "cloud"}
	docKeywords    = []string{"document", "documentation", "docs", "readme", "explain", "describe"}
	memoryKeywords = []string{"memory", "memories", "recall"}
	codeKeywords   = []string{"code", "program", "script", "function", "app", "application", "api", "write", "create", "build", "implement", "generate"}
)

// DefaultRules returns the canonical ordered rule list: exact triggers,
// prefixed directives, conjunctions, single keywords, default. First
// match wins.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "exact-self-optimize", Kind: RuleExact, Agent: registry.AgentEvolver, Trigger: "self-optimize"},
		{Name: "exact-init-memory", Kind: RuleExact, Agent: registry.AgentMemoryInit, Trigger: "init memory"},
		{Name: "exact-initialize-memory", Kind: RuleExact, Agent: registry.AgentMemoryInit, Trigger: "initialize memory"},

		{Name: "prefix-memory", Kind: RulePrefix, Agent: registry.AgentMemory, Prefix: "memory"},
		{Name: "prefix-remember", Kind: RulePrefix, Agent: registry.AgentRemember, Prefix: "remember"},
		{Name: "prefix-dsl", Kind: RulePrefix, Agent: registry.AgentDSL, Prefix: "dsl"},

		{Name: "conj-terraform", Kind: RuleAllOf, Agent: registry.AgentTerraform, Primary: iacKeywords, Secondary: cloudKeywords},
		{Name: "conj-ansible", Kind: RuleAllOf, Agent: registry.AgentAnsible, Primary: configKeywords, Secondary: hostKeywords},

		{Name: "kw-k8s", Kind: RuleAnyOf, Agent: registry.AgentK8s, Keywords: k8sKeywords},
		{Name: "kw-docker", Kind: RuleAnyOf, Agent: registry.AgentDocker, Keywords: dockerKeywords},
		{Name: "kw-infra", Kind: RuleAnyOf, Agent: registry.AgentInfra, Keywords: infraKeywords},
		{Name: "kw-doc", Kind: RuleAnyOf, Agent: registry.AgentDoc, Keywords: docKeywords},
		{Name: "kw-memory", Kind: RuleAnyOf, Agent: registry.AgentMemory, Keywords: memoryKeywords},
		{Name: "kw-code", Kind: RuleAnyOf, Agent: registry.AgentCode, Keywords: codeKeywords},

		{Name: "default-code", Kind: RuleDefault, Agent: registry.AgentCode},
	}
}
