package sampleid

import "testing"

func TestTranslateLegacyLabels(t *testing.T) {
	cases := []struct {
		legacy string
		want   string
	}{
		{"123D asdX +geneY", "123_none_ptrc_X_std_geneY_none_iptg_24_M1"},
		{"123Dthrmet asdX pTHR3 +geneY", "123_pTHR3_ptrc_X_std_geneY_dmet,dthr_iptg_24_M1"},
		{"7", "7_none_ptrc_wt_std_none_none_iptg_24_M1"},
		{"7 pTHR1", "7_pTHR1_ptrc_wt_std_none_none_iptg_24_M1"},
	}

	for _, c := range cases {
		id, ok := Translate(c.legacy, 24, true, "M1")
		if !ok {
			t.Errorf("Translate(%q) failed to parse", c.legacy)
			continue
		}
		if got := id.String(); got != c.want {
			t.Errorf("Translate(%q) = %q, want %q", c.legacy, got, c.want)
		}
		if id.TimePoint() != 24 {
			t.Errorf("Translate(%q) time point = %v", c.legacy, id.TimePoint())
		}
	}
}

func TestTranslateCorrectsMisspelledGeneCodes(t *testing.T) {
	id, ok := Translate("9Dtrhmte", 4.5, false, "MOPS")
	if !ok {
		t.Fatal("translate failed")
	}

	dels := id.DeletionGenes()
	if len(dels) != 2 || dels[0] != "met" || dels[1] != "thr" {
		t.Errorf("DeletionGenes = %v, want corrected [met thr]", dels)
	}
}

func TestTranslateDropsRedundantDeletions(t *testing.T) {
	id, ok := Translate("9Dasdthrlac", 24, true, "M1")
	if !ok {
		t.Fatal("translate failed")
	}

	dels := id.DeletionGenes()
	if len(dels) != 1 || dels[0] != "thr" {
		t.Errorf("DeletionGenes = %v, want [thr] with asd and lac dropped", dels)
	}
}

func TestTranslateRejectsUnparseableLabels(t *testing.T) {
	for _, legacy := range []string{
		"",
		"wild type",
		"123Dthrm",       // deletion block not a multiple of 3
		"123 what +gene", // unknown token
	} {
		if _, ok := Translate(legacy, 24, true, "M1"); ok {
			t.Errorf("Translate(%q) unexpectedly parsed", legacy)
		}
	}
}
