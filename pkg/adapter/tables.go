package adapter

// moduleKeywords routes a skill to a catalogue module based on keywords
// found in its name or description. Lookup order is fixed so inference is
// deterministic.
var moduleOrder = []string{
	"strategy", "research", "creative", "writing",
	"thinking", "engineering", "meta", "domains",
}

var moduleKeywords = map[string][]string{
	"strategy":    {"action", "plan", "roadmap", "strategy"},
	"research":    {"analyze", "research", "study", "investigate"},
	"creative":    {"design", "create", "generate", "visual", "art"},
	"writing":     {"write", "content", "copy", "edit"},
	"thinking":    {"logic", "think", "reason", "paradox"},
	"engineering": {"code", "dev", "build", "test", "deploy"},
	"meta":        {"skill", "config", "manage", "workflow"},
	"domains":     {"data", "doc", "prompt", "n8n", "presentation"},
}

// defaultModule receives skills no keyword matched.
const defaultModule = "meta"

// layerKeywords maps keywords to the catalogue's four abstraction layers.
var layerOrder = []string{"dao", "fa", "shu", "qi"}

var layerKeywords = map[string][]string{
	"dao": {"strategy", "brand", "value", "purpose"},
	"fa":  {"plan", "architecture", "design"},
	"shu": {"research", "write", "create"},
	"qi":  {"code", "tool", "utility", "implement"},
}

const defaultLayer = "shu"

// triggerTranslations is the fixed English to Chinese trigger table used
// when synthesising the missing language.
var triggerTranslations = []struct {
	en string
	zh string
}{
	{"write", "写作"},
	{"create", "创建"},
	{"design", "设计"},
	{"analyze", "分析"},
	{"research", "研究"},
	{"plan", "规划"},
	{"code", "代码"},
	{"test", "测试"},
	{"deploy", "部署"},
	{"visual", "视觉"},
	{"art", "艺术"},
	{"content", "内容"},
}
