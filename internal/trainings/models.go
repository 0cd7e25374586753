package trainings

import "time"

// Training is a learning module. CompletedBy lists user ids in completion order.
type Training struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Duration    string    `json:"duration"`
	CompletedBy []string  `json:"completedBy"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (t Training) CompletedByUser(userID string) bool {
	for _, id := range t.CompletedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Catalog is the module set shipped with the service. The Postgres store is
// seeded with the same rows by migration 00002.
func Catalog() []Training {
	return []Training{
		{ID: "train-001", Title: "Introduction to Cloud Migration", Duration: "45 mins",
			Content: "Learn the fundamentals of cloud migration strategies, including lift-and-shift, re-platforming, and refactoring approaches. This module covers AWS, Azure, and GCP best practices."},
		{ID: "train-002", Title: "Agile Project Management Essentials", Duration: "60 mins",
			Content: "Master Agile methodologies including Scrum, Kanban, and SAFe. Understand sprint planning, daily standups, retrospectives, and delivering value iteratively."},
		{ID: "train-003", Title: "Data Security & Compliance", Duration: "90 mins",
			Content: "Deep dive into GDPR, HIPAA, and SOC 2 compliance requirements. Learn data encryption, access controls, audit trails, and incident response procedures."},
		{ID: "train-004", Title: "Digital Transformation Strategy", Duration: "75 mins",
			Content: "Explore how to lead successful digital transformation initiatives. Topics include change management, stakeholder engagement, technology selection, and measuring ROI."},
		{ID: "train-005", Title: "API Design & Microservices", Duration: "120 mins",
			Content: "Learn RESTful API design principles, GraphQL, microservices architecture patterns, service mesh, and containerization with Docker and Kubernetes."},
	}
}
