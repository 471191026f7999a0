package telemetry

// AgentInfo describes one agent of the coordination circuit.
type AgentInfo struct {
	Name            string   `json:"name" yaml:"name"`
	Icon            string   `json:"icon" yaml:"icon"`
	Role            string   `json:"role" yaml:"role"`
	PrimaryFunction string   `json:"primary_function" yaml:"primary_function"`
	Capabilities    []string `json:"key_capabilities" yaml:"key_capabilities"`
	CoordRole       string   `json:"coordination_role" yaml:"coordination_role"`
}

// Agent names in circuit order.
const (
	CognitiveDetector    = "CognitiveDetector"
	NeuralBus            = "NeuralBus"
	MemoryController     = "MemoryController"
	DecisionEngine       = "DecisionEngine"
	AdaptationController = "AdaptationController"
	CoordinationHub      = "CoordinationHub"
)

var catalogue = []AgentInfo{
	{
		Name:            CognitiveDetector,
		Icon:            "🧠",
		Role:            "Flow Analysis & Pattern Recognition",
		PrimaryFunction: "Analyzes user flow states and cognitive patterns",
		Capabilities: []string{
			"Challenge-skill ratio analysis",
			"Flow coefficient calculation",
			"Attention focus measurement",
			"Stress level detection",
			"Intrinsic motivation assessment",
		},
		CoordRole: "Circuit input node - initiates all flow analysis",
	},
	{
		Name:            NeuralBus,
		Icon:            "🚀",
		Role:            "Message Routing & Load Balancing",
		PrimaryFunction: "Routes messages between agents with fault tolerance",
		Capabilities: []string{
			"Priority-based message routing",
			"Load balancing across agents",
			"Fault-tolerant communication",
			"Context preservation",
			"Emergency bypass routing",
		},
		CoordRole: "Circuit router - manages all inter-agent communication",
	},
	{
		Name:            MemoryController,
		Icon:            "💾",
		Role:            "Multi-Layer Memory Management",
		PrimaryFunction: "Manages episodic, semantic, and working memory",
		Capabilities: []string{
			"Flow strategy pattern storage",
			"User context persistence",
			"Memory consolidation",
			"Retrieval optimization",
			"Memory decay management",
		},
		CoordRole: "Circuit memory bank - stores and retrieves all system knowledge",
	},
	{
		Name:            DecisionEngine,
		Icon:            "⚡",
		Role:            "Flow Optimization & Strategy Planning",
		PrimaryFunction: "Makes decisions for optimal flow state achievement",
		Capabilities: []string{
			"Challenge-skill rebalancing",
			"Intervention strategy selection",
			"Confidence estimation",
			"Risk assessment",
			"Optimization plan generation",
		},
		CoordRole: "Circuit processor - executes all optimization decisions",
	},
	{
		Name:            AdaptationController,
		Icon:            "🔄",
		Role:            "Dynamic Parameter Adaptation",
		PrimaryFunction: "Adapts system parameters based on real-time feedback",
		Capabilities: []string{
			"Real-time parameter tuning",
			"Learning rate adjustment",
			"Feedback loop optimization",
			"Personalization engine",
			"Progressive adaptation",
		},
		CoordRole: "Circuit adapter - dynamically adjusts all system responses",
	},
	{
		Name:            CoordinationHub,
		Icon:            "🎯",
		Role:            "Cross-Module Orchestration",
		PrimaryFunction: "Orchestrates overall system coordination and validation",
		Capabilities: []string{
			"System-wide coordination",
			"Conflict resolution",
			"Performance validation",
			"Recovery orchestration",
			"Success confirmation",
		},
		CoordRole: "Circuit controller - manages entire system orchestration",
	},
}

// Agents returns a copy of the agent catalogue in circuit order.
func Agents() []AgentInfo {
	out := make([]AgentInfo, len(catalogue))
	copy(out, catalogue)
	return out
}

// AgentNames returns the default agent ids in circuit order.
func AgentNames() []string {
	names := make([]string, len(catalogue))
	for i, a := range catalogue {
		names[i] = a.Name
	}
	return names
}

// LookupAgent finds an agent by name.
func LookupAgent(name string) (AgentInfo, bool) {
	for _, a := range catalogue {
		if a.Name == name {
			return a, true
		}
	}
	return AgentInfo{}, false
}
