package model

import "strings"

// Topic is one thematic area of the fixed taxonomy
type Topic struct {
	Label       string
	Description string
}

// Taxonomy lists the thematic areas checked by the automatic analysis, in
// the order results are reported
var Taxonomy = []Topic{
	{
		Label: "Data Protection",
		Description: "This includes laws that serve to protect personal data and privacy, and which, among other things, " +
			"determine how data may be collected, processed, stored, and shared. This includes, but is not limited to, " +
			"the following laws: General Data Protection Regulation (also GDPR or Regulation (EU) 2016/679); the Law " +
			"Enforcement Directive or Directive (EU) 2016/680); the Federal Data Protection Act as well as the data " +
			"protection laws of the federal states; social data protection; health data protection.",
	},
	{
		Label: "Data Regulation",
		Description: "This encompasses laws that establish the legal frameworks and requirements regarding the handling " +
			"of data, the usability of data, and the exchange of data across various sectors. This includes, but is not " +
			"limited to, the following laws: Digital Markets Act (also DMA or Regulation (EU) 2022/1925); Digital " +
			"Services Act (also DSA or Regulation (EU) 2022/2065); Data Act (also DA or Regulation (EU) 2023/2854); " +
			"Data Governance Act (also DGA or Regulation (EU) 2022/868); European Health Data Space (also European " +
			"Health Data Space or EHDS); Health Data Usage Act (also GDNG).",
	},
	{
		Label: "Digital Products and Services",
		Description: "This includes laws that set conditions regarding intermediary services such as host providers, " +
			"online marketplaces, social networks, and cloud systems or applications (Digital Services), as well as " +
			"regarding products that are created and provided in digital form, such as computer programs, apps, music " +
			"files, e-books, or digital video games (Digital Products). This includes, but is not limited to, the " +
			"following laws: Digital Services Act (also DSA or Regulation (EU) 2022/2065); AI Regulation (also AI Act " +
			"or Regulation (EU) 2024/1689); AI Liability Directive (also AI Liability Directive or RL (EU) 2022/0303); " +
			"Digital Services Law.",
	},
	{
		Label: "Artificial Intelligence",
		Description: "This encompasses laws that regulate Artificial Intelligence. This includes, but is not limited " +
			"to, the following laws: AI Regulation (also AI Act or Regulation (EU) 2024/1689); AI Liability Directive " +
			"(also AI Liability Directive or RL (EU) 2022/0303); Product Liability Directive (also Directive (EU) " +
			"2022/0302).",
	},
	{
		Label: "Cybersecurity",
		Description: "This includes laws that deal with the requirements and standards of cybersecurity, IT security, " +
			"and/or security in information technology. This includes, but is not limited to, the following laws: " +
			"Cyber Resilience Regulation (also Cyber Resilience Act, CRA); Cyber Solidarity Regulation (also Cyber " +
			"Solidarity Act, CSA); Network and Information Security Directive (also NIS-2 or Directive (EU) " +
			"2022/2555); Regulation on Digital Operational Resilience (also DORA or Regulation (EU) 2022/2554).",
	},
}

// TopicLabels returns the taxonomy labels in order
func TopicLabels() []string {
	labels := make([]string, len(Taxonomy))
	for i, t := range Taxonomy {
		labels[i] = t.Label
	}
	return labels
}

// TopicIndex returns the taxonomy position of a label, matching
// case-insensitively after trimming, or -1
func TopicIndex(label string) int {
	label = strings.TrimSpace(label)
	for i, t := range Taxonomy {
		if strings.EqualFold(t.Label, label) {
			return i
		}
	}
	return -1
}
