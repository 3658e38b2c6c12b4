package constants

import "testing"

func TestParseRole(t *testing.T) {
	for _, in := range []string{"KJ", "KS", "Promoter"} {
		if _, err := ParseRole(in); err != nil {
			t.Errorf("ParseRole(%q) returned error: %v", in, err)
		}
	}

	if _, err := ParseRole("admin"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestRoleDerivedFlags(t *testing.T) {
	tests := []struct {
		role       Role
		isHost     bool
		isPromoter bool
	}{
		{RoleKJ, true, false},
		{RoleKS, false, false},
		{RolePromoter, false, true},
	}

	for _, tc := range tests {
		if tc.role.IsHost() != tc.isHost {
			t.Errorf("%s.IsHost() = %v", tc.role, tc.role.IsHost())
		}
		if tc.role.IsPromoter() != tc.isPromoter {
			t.Errorf("%s.IsPromoter() = %v", tc.role, tc.role.IsPromoter())
		}
	}
}

func TestRolePermissions(t *testing.T) {
	kj := RoleKJ.Permissions()
	if !kj.CanCreateEvents || !kj.CanManageEvents || kj.CanRegisterForEvents {
		t.Errorf("unexpected KJ permissions: %+v", kj)
	}

	ks := RoleKS.Permissions()
	if ks.CanCreateEvents || !ks.CanRegisterForEvents {
		t.Errorf("unexpected KS permissions: %+v", ks)
	}

	promoter := RolePromoter.Permissions()
	if !promoter.CanPromoteEvents || promoter.CanRegisterForEvents || promoter.CanCreateEvents {
		t.Errorf("unexpected Promoter permissions: %+v", promoter)
	}

	if (Role("ghost").Permissions() != RolePermissions{}) {
		t.Error("unknown role should have no permissions")
	}
}

func TestRoleScan(t *testing.T) {
	var r Role
	if err := r.Scan([]byte("KJ")); err != nil || r != RoleKJ {
		t.Fatalf("Scan([]byte) = %v, %v", r, err)
	}
	if err := r.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}

func TestRegistrationTypeInitialStatus(t *testing.T) {
	if RegistrationTypeInterested.InitialStatus() != RegistrationStatusInterested {
		t.Error("interested should start as interested")
	}
	if RegistrationTypeRegistered.InitialStatus() != RegistrationStatusPending {
		t.Error("registered should start as pending")
	}
}
