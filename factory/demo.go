package factory

// DemoRosterJSON is a small warehouse roster used by `seed` and the API tests.
const DemoRosterJSON = `{
  "banchine": [
    {"id": "b-cortile", "code": "CORTILE", "name": "Cortile"},
    {"id": "b-01", "code": "B01", "name": "Banchina 1"},
    {"id": "b-02", "code": "B02", "name": "Banchina 2"}
  ],
  "requirements": [
    {"id": "r-cortile-op", "banchina_id": "b-cortile", "role_name": "Operatore"},
    {"id": "r-01-carr", "banchina_id": "b-01", "role_name": "Carrellisti"},
    {"id": "r-01-op", "banchina_id": "b-01", "role_name": "Operatore generico"},
    {"id": "r-02-mag", "banchina_id": "b-02", "role_name": "Magazzinieri"},
    {"id": "r-02-caps", "banchina_id": "b-02", "role_name": "Capo turno"}
  ],
  "employees": [
    {"id": "e-rossi", "first_name": "Mario", "last_name": "Rossi", "manager_id": "m-bruno",
     "default_banchina_id": "b-01", "current_role": "Carrellista"},
    {"id": "e-bianchi", "first_name": "Anna", "last_name": "Bianchi", "co_manager_id": "m-bruno",
     "default_banchina_id": "b-02", "current_role": "Magazziniere", "secondary_role": "Carrellista"},
    {"id": "e-verdi", "first_name": "Luca", "last_name": "Verdi", "manager_id": "m-neri",
     "current_role": "Addetto"}
  ],
  "leaves": [
    {"id": "l-rossi-summer", "employee_id": "e-rossi", "start_date": "2024-06-12", "end_date": "2024-06-12",
     "status": "approved", "leave_type": "ferie"}
  ]
}`
