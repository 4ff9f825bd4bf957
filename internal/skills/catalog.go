package skills

// CanonicalSkill is one entry of the extraction catalog: the display name
// used as requirement raw_text plus the normalized forms scanned for in
// vacancy lines.
type CanonicalSkill struct {
	Name    string
	Aliases []string
}

// Catalog lists the skills the extractor recognizes in vacancy text. Order
// is stable so extraction output stays deterministic.
var Catalog = []CanonicalSkill{
	{Name: "Python", Aliases: []string{"python"}},
	{Name: "FastAPI", Aliases: []string{"fastapi", "fast api"}},
	{Name: "Django", Aliases: []string{"django"}},
	{Name: "DRF", Aliases: []string{"drf", "django rest framework"}},
	{Name: "PostgreSQL", Aliases: []string{"postgresql", "postgres"}},
	{Name: "Redis", Aliases: []string{"redis"}},
	{Name: "Kafka", Aliases: []string{"kafka"}},
	{Name: "RabbitMQ", Aliases: []string{"rabbitmq", "rabbit mq"}},
	{Name: "Celery", Aliases: []string{"celery"}},
	{Name: "Docker", Aliases: []string{"docker"}},
	{Name: "Docker Compose", Aliases: []string{"docker compose", "docker-compose"}},
	{Name: "Kubernetes", Aliases: []string{"kubernetes", "k8s"}},
	{Name: "React", Aliases: []string{"react", "reactjs"}},
	{Name: "TypeScript", Aliases: []string{"typescript", "type script"}},
	{Name: "Airflow", Aliases: []string{"airflow"}},
	{Name: "Prometheus", Aliases: []string{"prometheus"}},
	{Name: "Grafana", Aliases: []string{"grafana"}},
	{Name: "gRPC", Aliases: []string{"grpc", "g rpc"}},
	{Name: "REST", Aliases: []string{"rest", "rest api"}},
	{Name: "WebSocket", Aliases: []string{"websocket", "web socket"}},
	{Name: "pytest", Aliases: []string{"pytest", "py test"}},
	{Name: "Git", Aliases: []string{"git"}},
}

// extraAliasGroups holds matcher-side equivalences for skills that show up
// in manually entered requirements but are not part of the extraction
// catalog.
var extraAliasGroups = [][]string{
	{"node", "nodejs", "node.js"},
	{"javascript", "js"},
	{"typescript", "ts"},
}

// aliasIndex maps every known form to the full form set of its group.
var aliasIndex map[string][]string

func init() {
	aliasIndex = make(map[string][]string)
	for _, skill := range Catalog {
		forms := make([]string, 0, len(skill.Aliases)+1)
		forms = append(forms, Normalize(skill.Name))
		forms = append(forms, skill.Aliases...)
		registerAliasGroup(forms)
	}
	for _, group := range extraAliasGroups {
		registerAliasGroup(group)
	}
}

// registerAliasGroup merges the forms with any group already containing one
// of them, then points every form at the merged set.
func registerAliasGroup(forms []string) {
	seen := make(map[string]bool)
	var merged []string
	add := func(f string) {
		if f != "" && !seen[f] {
			seen[f] = true
			merged = append(merged, f)
		}
	}
	for _, f := range forms {
		for _, existing := range aliasIndex[f] {
			add(existing)
		}
	}
	for _, f := range forms {
		add(f)
	}
	for _, f := range merged {
		aliasIndex[f] = merged
	}
}

// AliasesFor returns the other known forms equivalent to the normalized key,
// or nil when the key belongs to no alias group.
func AliasesFor(key string) []string {
	group, ok := aliasIndex[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(group)-1)
	for _, form := range group {
		if form != key {
			out = append(out, form)
		}
	}
	return out
}
