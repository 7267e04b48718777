// Package testfixtures builds sample biosketch documents for tests across packages.
package testfixtures

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed biosketch.pdf
var samplePDF []byte

// SamplePDF returns a one-page PDF with a text layer holding a personal
// statement and an honors line.
func SamplePDF() []byte {
	out := make([]byte, len(samplePDF))
	copy(out, samplePDF)
	return out
}

// CertificationText is the statement the default template requires verbatim.
const CertificationText = "I certify that the information provided is current, accurate, and complete. " +
	"This includes but is not limited to information related to domestic and foreign appointments and positions. " +
	"I also certify that, at the time of submission, I am not a party to a malign foreign talent recruitment program."

// Biosketch is a document assembled from named blocks. Empty blocks are left
// out together with their heading.
type Biosketch struct {
	Header                   string
	ProfessionalPreparation  string
	Appointments             string
	ProductsRelated          string
	OtherProducts            string
	Certification            string
	PersonalStatement        string
	Honors                   string
	Contributions            string
	OmitFormHeading          bool
	OmitSupplementHeading    bool
	OmitCertificationHeading bool
}

// Compliant returns a document that passes every rule of the default template.
func Compliant() Biosketch {
	return Biosketch{
		Header: strings.Join([]string{
			"Name: Jordan Rivera",
			"ORCID: 0000-0002-1825-0097",
			"Position Title: Associate Professor",
			"Organization/Location: University of Example, Springfield",
		}, "\n"),
		ProfessionalPreparation: strings.Join([]string{
			"Stanford University, Stanford, CA, BS, 09/2004 - 06/2008, Biology",
			"Harvard University, Boston, MA, PhD, 09/2010 - 05/2015, Neuroscience",
		}, "\n"),
		Appointments: strings.Join([]string{
			"2015 - 2019 Postdoctoral Fellow, Harvard University",
			"2019 - Present Associate Professor, University of Example",
		}, "\n"),
		ProductsRelated: strings.Join([]string{
			"1. Rivera J, Smith A. 2021. Neural circuits of memory. Journal of Neuroscience. doi:10.1523/JNEUROSCI.0001-21.2021",
			"2. Rivera J. 2020. Synaptic plasticity in aging. Neuron. PMID: 12345678",
		}, "\n"),
		OtherProducts: "1. Rivera J, Lee K. 2019. Imaging dendritic spines. Nature Methods.",
		Certification: CertificationText,
		PersonalStatement: "My laboratory studies how neural circuits encode and retain memories across the lifespan. " +
			"I have trained in electrophysiology and imaging, and I lead an NIH funded program on synaptic plasticity.",
		Honors: strings.Join([]string{
			"2020 - Early Career Award, Society for Neuroscience",
			"2018 - Young Investigator Prize",
		}, "\n"),
		Contributions: Contributions(2),
	}
}

// Contributions returns n numbered contributions, each with two products.
func Contributions(n int) string {
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%d. Contribution %d described the role of hippocampal replay in memory consolidation and established methods now used by other laboratories.\n", i, i)
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "- Rivera J. %d. Replay study part %d. Cell Reports.\n", 2000+i, i)
		fmt.Fprintf(&sb, "- Rivera J, Chen L. %d. Follow up analysis %d. eLife.", 2010+i, i)
	}
	return sb.String()
}

// String assembles the document text.
func (b Biosketch) String() string {
	var sb strings.Builder
	block := func(heading, content string) {
		if content == "" {
			return
		}
		if heading != "" {
			sb.WriteString(heading)
			sb.WriteString("\n")
		}
		sb.WriteString(content)
		sb.WriteString("\n\n")
	}
	heading := func(text string, omit bool) string {
		if omit {
			return ""
		}
		return text
	}

	if !b.OmitFormHeading {
		sb.WriteString("NIH Biographical Sketch Common Form\n")
	}
	if b.Header != "" {
		sb.WriteString(b.Header)
		sb.WriteString("\n\n")
	}
	block("Professional Preparation", b.ProfessionalPreparation)
	block("Appointments and Positions", b.Appointments)
	block("Products Closely Related to the Proposed Project", b.ProductsRelated)
	block("Other Significant Products", b.OtherProducts)
	block(heading("Certification", b.OmitCertificationHeading), b.Certification)
	if !b.OmitSupplementHeading {
		sb.WriteString("NIH Biographical Sketch Supplement\n\n")
	}
	block("Personal Statement", b.PersonalStatement)
	block("Honors", b.Honors)
	block("Contributions to Science", b.Contributions)
	return sb.String()
}
