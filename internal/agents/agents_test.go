package agents

import "testing"

func TestLoadEmbeddedTable(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(table) < 20 {
		t.Fatalf("code table suspiciously small: %d entries", len(table))
	}

	agent, ok := table.Lookup("ADD6443A-41BD-E414-F6AD-E58D267F4E95")
	if !ok {
		t.Fatal("Jett guid missing from table")
	}
	if agent.Name != "Jett" || agent.Role != "Duelist" {
		t.Errorf("unexpected entry: %+v", agent)
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := table.Lookup("add6443a-41bd-e414-f6ad-e58d267f4e95"); !ok {
		t.Error("lowercase guid should resolve")
	}
}

func TestLookupMiss(t *testing.T) {
	table := Table{"GUID-1": {Name: "Jett", Role: "Duelist"}}
	if _, ok := table.Lookup("GUID-2"); ok {
		t.Error("unknown guid must miss")
	}
}
